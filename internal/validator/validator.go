// Package validator checks the integrity of a user flow before it is saved or started.
package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bots-against-war/moduli/pkg/domain"
)

// Severity ranks an issue. Errors make the backend reject the flow; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding, attached to a node id when it concerns one.
type Issue struct {
	Severity Severity `json:"severity"`
	NodeID   string   `json:"node_id,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.NodeID, i.Message)
}

// Report lists every issue found in a flow, in discovery order.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Errors returns the issues of error severity.
func (r Report) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the issues of warning severity.
func (r Report) Warnings() []Issue { return r.filter(SeverityWarning) }

// OK reports whether the flow has no errors.
func (r Report) OK() bool { return len(r.Errors()) == 0 }

func (r Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Err returns a *ValidationError when the report has errors, nil otherwise.
func (r Report) Err() error {
	if errs := r.Errors(); len(errs) > 0 {
		return &ValidationError{Issues: errs}
	}
	return nil
}

// ValidationError aggregates the error-level issues of a report.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("found %d errors:\n- %s", len(lines), strings.Join(lines, "\n- "))
}

type checker struct {
	flow   *domain.UserFlowConfig
	report Report
	blocks map[string]domain.ConcreteBlock
	nodes  map[string]bool
}

func (c *checker) errorf(node, format string, args ...any) {
	c.report.Issues = append(c.report.Issues, Issue{Severity: SeverityError, NodeID: node, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) warnf(node, format string, args ...any) {
	c.report.Issues = append(c.report.Issues, Issue{Severity: SeverityWarning, NodeID: node, Message: fmt.Sprintf(format, args...)})
}

// Validate inspects a flow and returns every issue it finds.
func Validate(flow *domain.UserFlowConfig) Report {
	c := &checker{
		flow:   flow,
		blocks: make(map[string]domain.ConcreteBlock),
		nodes:  make(map[string]bool),
	}
	c.checkIDs()
	c.checkCatchAll()
	c.checkLanguageSelect()
	c.checkReferences()
	c.checkBlocks()
	c.checkReachability()
	c.checkCoords()
	return c.report
}

func (c *checker) checkIDs() {
	for i, e := range c.flow.Entrypoints {
		ep := e.Concrete()
		if ep == nil {
			c.errorf("", "entrypoint #%d has no populated variant", i)
			continue
		}
		if c.nodes[ep.ID()] {
			c.errorf(ep.ID(), "duplicate node id")
		}
		c.nodes[ep.ID()] = true
	}
	for i, b := range c.flow.Blocks {
		block := b.Concrete()
		if block == nil {
			c.errorf("", "block #%d has no populated variant", i)
			continue
		}
		if c.nodes[block.ID()] {
			c.errorf(block.ID(), "duplicate node id")
		}
		c.nodes[block.ID()] = true
		if _, seen := c.blocks[block.ID()]; !seen {
			c.blocks[block.ID()] = block
		}
	}
}

func (c *checker) checkCatchAll() {
	var ids []string
	for _, e := range c.flow.Entrypoints {
		if ca := e.CatchAll(); ca != nil {
			ids = append(ids, ca.EntrypointID)
		}
	}
	for _, b := range c.flow.Blocks {
		if ho := b.HumanOperator(); ho != nil && ho.CatchAll {
			ids = append(ids, ho.BlockID)
		}
	}
	if len(ids) > 1 {
		c.errorf("", "more than one catch-all blocks/entrypoints: %s", strings.Join(ids, ", "))
	}
}

func (c *checker) checkLanguageSelect() {
	var found []*domain.LanguageSelectBlock
	for _, b := range c.flow.Blocks {
		if ls := b.LanguageSelect(); ls != nil {
			found = append(found, ls)
		}
	}
	if len(found) > 1 {
		c.errorf("", "at most one language selection block is allowed in the user flow, found %d", len(found))
	}
	for _, ls := range found {
		if len(ls.SupportedLanguages) == 0 {
			c.errorf(ls.BlockID, "no supported languages")
			continue
		}
		if !slices.Contains(ls.SupportedLanguages, ls.DefaultLanguage) {
			c.errorf(ls.BlockID, "default language %q is not among supported languages", ls.DefaultLanguage)
		}
	}
}

func (c *checker) checkReferences() {
	for _, e := range c.flow.Entrypoints {
		ep := e.Concrete()
		if ep == nil {
			continue
		}
		if next := ep.NextBlock(); next != nil {
			c.checkTarget(ep.ID(), *next)
		}
	}
	for _, b := range c.flow.Blocks {
		block := b.Concrete()
		// duplicates were reported by checkIDs
		if block == nil || c.blocks[block.ID()] != block {
			continue
		}
		for _, next := range block.PossibleNextBlockIDs() {
			c.checkTarget(block.ID(), next)
		}
	}
}

func (c *checker) checkTarget(from, to string) {
	if _, ok := c.blocks[to]; !ok {
		c.errorf(from, "references missing block %q", to)
	}
}

func (c *checker) checkBlocks() {
	for _, e := range c.flow.Entrypoints {
		if re := e.Regex(); re != nil {
			if _, err := regexp.Compile(re.Regex); err != nil {
				c.warnf(re.EntrypointID, "regex does not compile: %v", err)
			}
		}
		if cmd := e.Command(); cmd != nil && strings.TrimSpace(cmd.Command) == "" {
			c.errorf(cmd.EntrypointID, "empty command")
		}
	}

	langs := []string(nil)
	if ls := c.flow.LanguageSelectBlock(); ls != nil {
		langs = ls.SupportedLanguages
	}

	for _, b := range c.flow.Blocks {
		concrete := b.Concrete()
		if concrete == nil {
			continue
		}
		switch block := concrete.(type) {
		case *domain.MenuBlock:
			c.checkMenu(block.BlockID, &block.Menu)
		case *domain.FormBlock:
			c.checkForm(block)
		}
		if len(langs) > 0 {
			for _, t := range localizableTexts(concrete) {
				c.checkTranslations(concrete.ID(), t, langs)
			}
		}
	}
}

func (c *checker) checkMenu(blockID string, m *domain.Menu) {
	for _, item := range m.Items {
		if item.Targets() > 1 {
			c.errorf(blockID, "menu item %q has more than one of submenu, next block and link", item.Label.String())
		}
		if item.Submenu != nil {
			c.checkMenu(blockID, item.Submenu)
		}
	}
}

func (c *checker) checkForm(form *domain.FormBlock) {
	if len(form.Members) == 0 {
		c.errorf(form.BlockID, "form has no members")
	}
	seen := make(map[string]bool)
	for _, f := range domain.FlattenedFormFields(form.Members) {
		field := f.Concrete()
		if field == nil {
			c.errorf(form.BlockID, "form field has no populated variant")
			continue
		}
		if seen[field.FieldID()] {
			c.errorf(form.BlockID, "duplicate form field id %q", field.FieldID())
		}
		seen[field.FieldID()] = true
		if ss := f.SingleSelect(); ss != nil && len(ss.Options) == 0 {
			c.errorf(form.BlockID, "single select field %q has no options", ss.ID)
		}
	}
}

func (c *checker) checkTranslations(blockID string, t domain.LocalizableText, langs []string) {
	if !t.IsMultilang() {
		if t.Plain() == "" {
			return
		}
		c.warnf(blockID, "text %q is not translated in a multilingual flow", t.Plain())
		return
	}
	var missing []string
	for _, lang := range langs {
		if _, ok := t.In(lang); !ok {
			missing = append(missing, lang)
		}
	}
	if len(missing) > 0 {
		c.warnf(blockID, "text is missing translations: %s", strings.Join(missing, ", "))
	}
}

// localizableTexts collects the user-facing texts of a block that must be translated.
func localizableTexts(b domain.ConcreteBlock) []domain.LocalizableText {
	var texts []domain.LocalizableText
	switch block := b.(type) {
	case *domain.ContentBlock:
		for _, content := range block.Contents {
			if content.Text != nil {
				texts = append(texts, content.Text.Text)
			}
		}
	case *domain.MenuBlock:
		var walk func(m *domain.Menu)
		walk = func(m *domain.Menu) {
			texts = append(texts, m.Text)
			for _, item := range m.Items {
				texts = append(texts, item.Label)
				if item.Submenu != nil {
					walk(item.Submenu)
				}
			}
		}
		walk(&block.Menu)
	case *domain.FormBlock:
		for _, f := range domain.FlattenedFormFields(block.Members) {
			switch field := f.Concrete().(type) {
			case *domain.PlainTextFormField:
				texts = append(texts, field.Prompt)
			case *domain.SingleSelectFormField:
				texts = append(texts, field.Prompt)
				for _, opt := range field.Options {
					texts = append(texts, opt.Label)
				}
			}
		}
	}
	return texts
}

// checkReachability crawls from the entrypoints and flags blocks nothing leads to.
func (c *checker) checkReachability() {
	visited := make(map[string]bool)
	var queue []string
	for _, e := range c.flow.Entrypoints {
		if ep := e.Concrete(); ep != nil && ep.NextBlock() != nil {
			queue = append(queue, *ep.NextBlock())
		}
	}
	// catch-all operator blocks are entered directly
	for _, b := range c.flow.Blocks {
		if ho := b.HumanOperator(); ho != nil && ho.CatchAll {
			queue = append(queue, ho.BlockID)
		}
	}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		block, ok := c.blocks[currentID]
		if !ok {
			continue // reported by checkReferences
		}
		for _, next := range block.PossibleNextBlockIDs() {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	for _, b := range c.flow.Blocks {
		block := b.Concrete()
		if block == nil {
			continue
		}
		if !visited[block.ID()] {
			c.warnf(block.ID(), "block is unreachable from any entrypoint")
		}
	}
}

func (c *checker) checkCoords() {
	ids := make([]string, 0, len(c.flow.NodeDisplayCoords))
	for id := range c.flow.NodeDisplayCoords {
		if !c.nodes[id] && id != domain.BotInfoNodeID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		c.warnf(id, "display coordinates for unknown node")
	}
}
