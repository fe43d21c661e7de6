/*
Package domain contains the bot user-flow configuration model.

A flow is a tree of plain, serializable records: entrypoints (triggers) that start
execution at a block, and blocks (content, menus, forms, human-operator handoff,
language selection) that point to each other through next-block ids. The package is
kept free of I/O; the backend stores and executes flows, this code only shapes them.

# Tagged unions

The wire format encodes variants as sibling fields of which exactly one is non-null:

	{"content": {"block_id": "b1", ...}}

Go code models each union as a wrapper around a sealed interface (BlockConfig,
EntryPointConfig, FormFieldConfig) with one constructor per variant. Decoding rejects
payloads with zero or several populated variants, and recursive shapes (menus, form
branches) are bounded by MaxNestingDepth.

# Key Entities

  - UserFlowConfig: the root aggregate (entrypoints, blocks, editor node coordinates).
  - EntryPointConfig: command, catch-all or regex trigger.
  - BlockConfig: one step of the flow graph.
  - LocalizableText: a plain string, or a language code to string mapping in multilingual flows.
*/
package domain
