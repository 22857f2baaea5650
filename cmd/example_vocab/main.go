// Command example_vocab compares the vocabulary of authors. It reads file
// names from stdin, one per line, named "<author>__<title>.txt", and prints
// each author's unique word count and word diversity.
//
//	ls texts/*.txt | example_vocab
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/birdayz/consecution"
	"github.com/birdayz/consecution/pkg/log"
)

type word struct {
	author, text string
}

type counts struct {
	author string
	counts []int
}

type score struct {
	author string
	value  int
}

var (
	disallowed  = regexp.MustCompile(`[^a-z .?!:;,\-]`)
	punctuation = regexp.MustCompile(`[.?!:;,\-"']`)
)

func readFile(ctx consecution.Context, fileName string) error {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil
	}
	author, _, _ := strings.Cut(fileName[strings.LastIndex(fileName, "/")+1:], "__")

	f, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		line = disallowed.ReplaceAllString(line, "")
		line = punctuation.ReplaceAllString(line, " ")
		for _, w := range strings.Fields(line) {
			if err := ctx.Push(word{author: author, text: w}); err != nil {
				return err
			}
		}
	}
	return sc.Err()
}

type wordCounter struct {
	perAuthor map[string]map[string]int
}

func (c *wordCounter) Begin(ctx consecution.Context) error {
	c.perAuthor = map[string]map[string]int{}
	return nil
}

func (c *wordCounter) Process(ctx consecution.Context, item any) error {
	w := item.(word)
	if c.perAuthor[w.author] == nil {
		c.perAuthor[w.author] = map[string]int{}
	}
	c.perAuthor[w.author][w.text]++
	return nil
}

func (c *wordCounter) End(ctx consecution.Context) error {
	authors := make([]string, 0, len(c.perAuthor))
	for a := range c.perAuthor {
		authors = append(authors, a)
	}
	sort.Strings(authors)

	for _, a := range authors {
		var cs []int
		for _, n := range c.perAuthor[a] {
			cs = append(cs, n)
		}
		if err := ctx.Push(counts{author: a, counts: cs}); err != nil {
			return err
		}
	}
	return nil
}

// report gathers one score per author and prints them sorted when the
// pipeline ends.
type report struct {
	title  string
	calc   func([]int) int
	scores []score
}

func (r *report) Begin(ctx consecution.Context) error {
	r.scores = nil
	return nil
}

func (r *report) Process(ctx consecution.Context, item any) error {
	c := item.(counts)
	r.scores = append(r.scores, score{author: c.author, value: r.calc(c.counts)})
	return nil
}

func (r *report) End(ctx consecution.Context) error {
	sort.SliceStable(r.scores, func(i, j int) bool { return r.scores[i].value < r.scores[j].value })
	fmt.Println()
	fmt.Println(strings.Repeat("-", 80))
	fmt.Println(r.title)
	for _, s := range r.scores {
		fmt.Printf("%-30s %d\n", s.author, s.value)
	}
	return nil
}

func uniqueWords(cs []int) int {
	return len(cs)
}

// diversity is the exponential of the word distribution's entropy.
func diversity(cs []int) int {
	total := 0
	for _, c := range cs {
		total += c
	}
	entropy := 0.0
	for _, c := range cs {
		p := float64(c) / float64(total)
		entropy -= p * math.Log(p)
	}
	return int(math.Round(math.Exp(entropy)))
}

func main() {
	verbosity := flag.Int("v", 0, "log verbosity")
	plot := flag.String("plot", "", "also render the pipeline to this file (png)")
	flag.Parse()

	logger := log.New(log.WithVerbosity(*verbosity))

	bld := consecution.NewBuilder(consecution.WithBuilderLogr(logger))
	top := consecution.MustChain(
		bld.MustAddNode("file_reader", consecution.Typed(readFile)),
		bld.MustAddNode("word_counter", &wordCounter{}),
		[]any{
			bld.MustAddNode("total_count", &report{title: "Sorted by total number of unique words", calc: uniqueWords}),
			bld.MustAddNode("diversity_calc", &report{title: "Sorted by total word diversity", calc: diversity}),
		},
	)
	p := consecution.MustNew(top, consecution.WithLogr(logger))
	logger.Info("Built pipeline", "pipeline", p.String())

	ctx := context.Background()
	if *plot != "" {
		if err := p.Plot(ctx, *plot, "png"); err != nil {
			logger.Error(err, "Failed to plot pipeline")
		}
	}

	sc := bufio.NewScanner(os.Stdin)
	var lines iter.Seq[string] = func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
	}
	if _, err := p.Consume(ctx, consecution.Seq(lines)); err != nil {
		logger.Error(err, "Pipeline failed")
		os.Exit(1)
	}
	if err := sc.Err(); err != nil {
		logger.Error(err, "Failed to read file names")
		os.Exit(1)
	}
}
