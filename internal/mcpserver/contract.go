package mcpserver

// ConventionsURI identifies the note conventions resource.
const ConventionsURI = "memopad://conventions"

// Conventions tells MCP clients how notes in the served folder behave.
const Conventions = `# Memopad note conventions

Notes are plain Markdown files sitting directly in one folder. There are no
sub-folders, no frontmatter requirements and no index.

## Names

- Every note ends in ` + "`.md`" + `. Tools that take a new name append it for you;
  a trailing ` + "`.md`" + ` you type is dropped first.
- Names may not contain ` + "`/`" + ` or ` + "`\\`" + `, may not contain ` + "`..`" + `, and may not
  start with a dot.
- ` + "`create_memo`" + ` never overwrites: if ` + "`draft.md`" + ` exists you get ` + "`draft-1.md`" + `,
  then ` + "`draft-2.md`" + `.
- ` + "`rename_memo`" + ` fails instead of replacing another note.

## Content

- ` + "`save_memo`" + ` replaces the whole file and only works on notes that exist.
- Files are stored exactly as given, UTF-8, no transformation.

## Errors

Failed tool calls return ` + "`{\"kind\": ..., \"message\": ...}`" + `. Kinds you may see:
file_not_found, access_denied, invalid_file_name, not_markdown_file,
invalid_folder, io_error.
`
