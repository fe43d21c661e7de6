package domain

import "fmt"

// MenuMechanism selects how menu items are presented to the user.
type MenuMechanism string

const (
	MechanismInlineButtons MenuMechanism = "inline_buttons"
	MechanismReplyKeyboard MenuMechanism = "reply_keyboard"
)

// MenuBlock is a multilevel menu. Items either lead to another block, open a link,
// or descend into a submenu.
type MenuBlock struct {
	BlockID string `json:"block_id"`
	Menu    Menu   `json:"menu"`
}

func (b *MenuBlock) ID() string      { return b.BlockID }
func (b *MenuBlock) Kind() BlockKind { return BlockMenu }

func (b *MenuBlock) PossibleNextBlockIDs() []string {
	ids := []string{}
	b.Menu.walk(func(item *MenuItem) {
		if item.NextBlockID != nil {
			ids = append(ids, *item.NextBlockID)
		}
	})
	return ids
}

func (b *MenuBlock) checkDepth() error {
	if d := b.Menu.Depth(); d > MaxNestingDepth {
		return fmt.Errorf("menu block %q: depth %d: %w", b.BlockID, d, ErrNestingTooDeep)
	}
	return nil
}

type Menu struct {
	Text   LocalizableText `json:"text"`
	Markup TextMarkup      `json:"markup,omitempty"`
	Items  []MenuItem      `json:"items"`
	Config MenuConfig      `json:"config"`
}

// Depth returns the number of menu levels, counting this one.
func (m *Menu) Depth() int {
	deepest := 0
	for i := range m.Items {
		if sub := m.Items[i].Submenu; sub != nil {
			deepest = max(deepest, sub.Depth())
		}
	}
	return deepest + 1
}

// walk visits every item of the menu tree in pre-order.
func (m *Menu) walk(visit func(*MenuItem)) {
	for i := range m.Items {
		item := &m.Items[i]
		visit(item)
		if item.Submenu != nil {
			item.Submenu.walk(visit)
		}
	}
}

// MenuItem is a leaf (next block or link) or a submenu. An item with none set is a no-op button.
type MenuItem struct {
	Label       LocalizableText `json:"label"`
	Submenu     *Menu           `json:"submenu,omitempty"`
	NextBlockID *string         `json:"next_block_id,omitempty"`
	LinkURL     *string         `json:"link_url,omitempty"`
}

// Targets counts how many of submenu, next block and link are set; at most one is allowed.
func (i MenuItem) Targets() int {
	n := 0
	if i.Submenu != nil {
		n++
	}
	if i.NextBlockID != nil {
		n++
	}
	if i.LinkURL != nil {
		n++
	}
	return n
}

type MenuConfig struct {
	Mechanism            MenuMechanism    `json:"mechanism"`
	BackLabel            *LocalizableText `json:"back_label"`
	LockAfterTermination bool             `json:"lock_after_termination"`
}
