package mcpserver

// MarkerContract describes the front-matter conventions applied to stories
// and datasets, so LLM consumers can interpret processed metadata.
const MarkerContract = `# Content Marker Contract

Stories live in ` + "`" + `stories/` + "`" + ` and datasets in ` + "`" + `datasets/` + "`" + ` as flat ` + "`" + `.mdx` + "`" + ` files.
The file stem is the slug. Each file starts with a YAML (` + "`" + `---` + "`" + `) or TOML
(` + "`" + `+++` + "`" + `) front-matter block followed by the MDX body.

## Value markers

Any string value in the front matter, at any depth, may carry a marker:

- ` + "`" + `::markdown` + "`" + ` renders the rest of the value as Markdown. The result is HTML
  with all newlines removed.
- ` + "`" + `::js` + "`" + ` keeps the rest of the value as code. Literal ` + "`" + `\n` + "`" + ` sequences
  become real newlines.

Only a leading marker is stripped from the output.

## Layers

Every element of a dataset's ` + "`" + `layers` + "`" + ` list gains
` + "`" + `parentDataset: {id: <dataset id>}` + "`" + `.

## Links

Root-relative links (` + "`" + `/stories/x` + "`" + `, ` + "`" + `/data-catalog/y` + "`" + `) inside string values are
prefixed with the configured base path. External URLs are left alone.

## Taxonomy

` + "`" + `taxonomy` + "`" + ` is a list of ` + "`" + `{name, values}` + "`" + ` groups. Values are normalised to
` + "`" + `{id, name}` + "`" + ` where ` + "`" + `id` + "`" + ` is a lowercase slug of the name.

## Example

` + "```" + `markdown
---
id: no2
name: Nitrogen Dioxide
description: "::markdown See the [story](/stories/air-quality)."
taxonomy:
  - name: Topics
    values: [Air Quality]
layers:
  - id: no2-monthly
    legend: "::js (v) => v.toFixed(2)"
---

Dataset body in MDX.
` + "```" + `
`
