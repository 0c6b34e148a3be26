// Package report renders inspection results in multiple output formats.
//
// Three writers are provided: SimpleWriter for human-readable terminal
// output, JSONWriter for tool integration, and MarkdownWriter for
// documentation and sharing. MultiWriter fans a report out to several
// destinations at once, e.g. terminal and file.
package report
