// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	SourceNotFoundId Id = iota + 1
	SourceNotDirectoryId
	ListenFailedId
	ConfigLoadFailedId
	CompilerNotInstalledId
)

type (
	Id int

	MarkdownMsg string

	// Issue is a markdown explanation of a fatal condition, with the steps a
	// user can take before retrying.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render returns the issue rendered for the terminal with the given glamour
// style ("dark", "light", "notty", or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	sourceNotFoundIssue = &Issue{
		id: SourceNotFoundId,
		mdMsg: `
# Source directory not found!

The directory passed with ` + "`--src`" + ` does not exist.

## Things you can try:
- Check the path for typos
- Pass an absolute path:
~~~
$ dexd --src "$PWD/dexfiles"
~~~`,
	}

	sourceNotDirectoryIssue = &Issue{
		id: SourceNotDirectoryId,
		mdMsg: `
# Source path is not a directory!

` + "`--src`" + ` must point at the root of your dexfiles, the directory that
contains one folder per site (` + "`global`" + `, ` + "`utilities`" + `, ` + "`example.com`" + `...).

## Expected layout:
~~~
dexfiles/
  global/
    setup.js
  example.com/
    widget/
      widget.coffee
      widget.scss
      info.yaml
~~~`,
	}

	listenFailedIssue = &Issue{
		id: ListenFailedId,
		mdMsg: `
# Could not start the server!

Another process is probably already listening on the daemon port.

## Things you can try:
- Stop the other dexd instance
- Pick another port:
~~~
$ dexd --src dexfiles --port 2346
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The config file exists but is not valid CUE, or a value does not match the
schema.

## Example config.cue:
~~~cue
host: "localhost"
port: 2345
compilers: {
	coffee: "coffee"
	sass:   "sass"
}
~~~`,
	}

	compilerNotInstalledIssue = &Issue{
		id: CompilerNotInstalledId,
		mdMsg: `
# A compiler is not installed!

CoffeeScript and Sass sources are compiled by external programs found on
your ` + "`PATH`" + `. Missing compilers are reported inside the served file.

## Things you can try:
~~~
$ npm install -g coffeescript
$ npm install -g sass
~~~`,
	}

	issues = map[Id]*Issue{
		sourceNotFoundIssue.id:       sourceNotFoundIssue,
		sourceNotDirectoryIssue.id:   sourceNotDirectoryIssue,
		listenFailedIssue.id:         listenFailedIssue,
		configLoadFailedIssue.id:     configLoadFailedIssue,
		compilerNotInstalledIssue.id: compilerNotInstalledIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id - b.id)
	})
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
