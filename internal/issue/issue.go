// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Catalog identifiers. The zero value means "no catalog entry".
const (
	ProgramNotFoundId Id = iota + 1
	PermissionDeniedId
	WorkDirInvalidId
	EnvFileInvalidId
	ConfigLoadFailedId
	ShellNotFoundId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is Markdown text rendered for the user.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a catalog entry with extended guidance for a failure kind.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	// render is swapped in tests to avoid depending on terminal detection.
	render = glamour.Render

	programNotFoundIssue = &Issue{
		id: ProgramNotFoundId,
		mdMsg: `
# Program not found

procrun could not find the program to run.

## Things you can try
- Check the spelling of the program path
- Programs without a path separator are looked up in ` + "`PATH`" + `
- For a program in the working directory, use an explicit prefix:
~~~
$ procrun run -- ./build.sh
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

The program exists but could not be executed.

## Things you can try
- Make the file executable:
~~~
$ chmod +x ./build.sh
~~~
- On Windows, run scripts through the shell:
~~~
> procrun run --shell always -- build.cmd
~~~`,
	}

	workDirInvalidIssue = &Issue{
		id: WorkDirInvalidId,
		mdMsg: `
# Invalid working directory

The directory given with ` + "`--dir`" + ` does not exist, is not a directory, or is not accessible.

## Things you can try
- Check the path and create the directory if needed
- Relative paths are resolved against the current directory`,
	}

	envFileInvalidIssue = &Issue{
		id: EnvFileInvalidId,
		mdMsg: `
# Invalid env file

An env file could not be read or parsed.

## Supported format
~~~
# comment
export KEY=value
QUOTED="line\nbreak"
LITERAL='no $expansion'
~~~

## Things you can try
- Mark files that may be absent as optional with a trailing ` + "`?`" + `:
~~~
$ procrun run --env-file .env.local? -- ./server
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file exists but could not be read or does not match the schema.

## Things you can try
- Print the default configuration and compare:
~~~
$ procrun config dump
~~~
- Recreate the file:
~~~
$ procrun config init
~~~`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found

Shell routing is enabled but the command interpreter could not be started.

## Things you can try
- Disable shell routing:
~~~
$ procrun run --shell never -- ./prog
~~~
- Use the embedded interpreter instead:
~~~
$ procrun run --virtual -- ./prog
~~~`,
	}

	issues = map[Id]*Issue{
		programNotFoundIssue.Id():  programNotFoundIssue,
		permissionDeniedIssue.Id(): permissionDeniedIssue,
		workDirInvalidIssue.Id():   workDirInvalidIssue,
		envFileInvalidIssue.Id():   envFileInvalidIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		shellNotFoundIssue.Id():    shellNotFoundIssue,
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the guidance for a terminal using a glamour style
// ("dark", "light", "notty", "auto", or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		var extra strings.Builder
		extra.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			extra.WriteString("- " + string(link) + "\n")
		}
		md += extra.String()
	}
	return render(md, stylePath)
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
