// Command mdxtool is a small inspection and lookup CLI for MDX/MDD
// dictionary files.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dictkit/mdx"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <dict.mdx|dict.mdd> <info|lookup|suggest> [args...]\n", os.Args[0])
		os.Exit(2)
	}

	path := os.Args[1]
	cmd := os.Args[2]
	args := os.Args[3:]

	dict, err := mdx.New(path)
	if err != nil {
		fatalf("open %s: %v", path, err)
	}
	defer dict.Close()

	if err := dict.BuildIndex(); err != nil {
		fatalf("build index: %v", err)
	}

	switch cmd {
	case "info":
		runInfo(dict)
	case "lookup":
		if len(args) < 1 {
			fatalf("lookup requires a word argument")
		}
		runLookup(dict, strings.Join(args, " "))
	case "suggest":
		if len(args) < 1 {
			fatalf("suggest requires a prefix argument")
		}
		runSuggest(dict, args[0])
	default:
		fatalf("unknown command %q", cmd)
	}
}

func runInfo(dict *mdx.Dictionary) {
	table.DefaultHeaderFormatter = func(format string, vals ...interface{}) string {
		return color.New(color.FgGreen, color.Bold).Sprintf(format, vals...)
	}
	tbl := table.New("Field", "Value")
	tbl.AddRow("Name", dict.Name())
	tbl.AddRow("Title", dict.Title())
	tbl.AddRow("Description", dict.Description())
	tbl.AddRow("CreationDate", dict.CreationDate())
	tbl.AddRow("EngineVersion", dict.GeneratedByEngineVersion())
	tbl.AddRow("Format", formatKind(dict))
	tbl.AddRow("Encoding", dict.Encoding().String())
	tbl.AddRow("Entries", dict.Len())
	tbl.Print()
}

func formatKind(dict *mdx.Dictionary) string {
	if dict.IsMDD() {
		return "MDD"
	}
	return "MDX"
}

func runLookup(dict *mdx.Dictionary, word string) {
	if dict.IsMDD() {
		data, err := dict.Locate(word, mdx.ResourceEncodingNone)
		if err != nil {
			if mdx.IsNotFound(err) {
				color.Yellow("resource %q not found", word)
				return
			}
			fatalf("locate %q: %v", word, err)
		}
		fmt.Printf("%d bytes\n", len(data))
		return
	}

	data, err := dict.Lookup(word)
	if err != nil {
		if mdx.IsNotFound(err) {
			color.Yellow("%q not found", word)
			return
		}
		fatalf("lookup %q: %v", word, err)
	}
	fmt.Println(string(data))
}

func runSuggest(dict *mdx.Dictionary, prefix string) {
	keys, err := dict.Suggest(prefix)
	if err != nil {
		fatalf("suggest %q: %v", prefix, err)
	}
	if len(keys) == 0 {
		color.Yellow("no matches for %q", prefix)
		return
	}

	table.DefaultHeaderFormatter = func(format string, vals ...interface{}) string {
		return color.New(color.FgCyan, color.Bold).Sprintf(format, vals...)
	}
	tbl := table.New("#", "Key")
	for i, k := range keys {
		tbl.AddRow(i+1, k)
	}
	tbl.Print()
}

func fatalf(format string, args ...interface{}) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "mdxtool: "+format+"\n", args...)
	os.Exit(1)
}
