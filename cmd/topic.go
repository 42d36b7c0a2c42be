package cmd

import (
	"context"
	"flag"

	"github.com/etnz/valutatrade/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "display documentation topics" }
func (*topicCmd) Usage() string {
	return `vtrade topic [<name>...]

  Displays the named topics, or the list of topics if none is given.
  Use '*' for all of them.
`
}
func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (*topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		printMarkdown(docs.Index())
		return subcommands.ExitSuccess
	}
	for _, name := range f.Args() {
		content, err := docs.Topic(name)
		if err != nil {
			return fail(err)
		}
		printMarkdown(content)
	}
	return subcommands.ExitSuccess
}
