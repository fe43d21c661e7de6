/*
Package defaults builds the initial configuration of a node the editor adds to a flow.

Each Factory receives an explicit Context (node id, translator, language configuration,
the flow being edited, UI locale and the backend's prefilled message catalog) and returns
a ready-to-save Node. No factory reads ambient state, so all of them are pure functions of
their Context apart from the random form name.

When the flow is multilingual (Context.LangConfig != nil), every user-facing text that
would be a plain string becomes a per-language map with one entry per supported language.
*/
package defaults
