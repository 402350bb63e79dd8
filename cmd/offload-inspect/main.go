package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-offload/pkg/cache"
	"github.com/dd0wney/cluso-offload/pkg/graph"
	"github.com/dd0wney/cluso-offload/pkg/logging"
	"github.com/dd0wney/cluso-offload/pkg/offload"
	"github.com/dd0wney/cluso-offload/pkg/quantfold"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FF00"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))
)

func main() {
	modelPath := flag.String("model", "", "Path to the model description (YAML)")
	partitionSpec := flag.String("partition", "", "Comma-separated topological positions of the candidate region (default: whole graph)")
	cacheDir := flag.String("cache", "", "Partition cache directory (optional)")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	flag.Parse()

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "usage: offload-inspect -model <file> [-partition 0,1,2] [-cache <dir>]")
		os.Exit(2)
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(*logLevel))
	logging.SetDefaultLogger(logger)

	g, err := graph.LoadFile(*modelPath)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	identity := offload.UniqueGraphName(g)
	fmt.Println(titleStyle.Render("Offload Inspector"))
	fmt.Println()
	fmt.Println(sectionStyle.Render("Model"))
	fmt.Printf("  Graph:    %s\n", g.Name())
	fmt.Printf("  Identity: %s\n", identity)
	fmt.Printf("  Nodes:    %d\n\n", liveNodeCount(g))

	session := offload.NewSession(logger)
	if err := session.Builder().Build(g); err != nil {
		log.Fatalf("Context build failed: %v", err)
	}

	candidate := g
	if *partitionSpec != "" {
		part, err := parsePartition(*partitionSpec)
		if err != nil {
			log.Fatalf("Bad -partition value: %v", err)
		}
		candidate, err = offload.BuildCandidate(g, part)
		if err != nil {
			log.Fatalf("Candidate build failed: %v", err)
		}
	}
	if err := session.Prepare(candidate, g); err != nil {
		log.Fatalf("Prepare failed: %v", err)
	}

	reportContexts(session.Store())
	reportCandidate(candidate)
	reportFoldableDQ(g, logger)

	if *cacheDir != "" {
		reportCache(*cacheDir, session, g, identity, logger)
	}
}

func parsePartition(value string) (*offload.SubGraph, error) {
	part := &offload.SubGraph{Supported: true}
	for _, field := range strings.Split(value, ",") {
		pos, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		part.Nodes = append(part.Nodes, pos)
	}
	return part, nil
}

func liveNodeCount(g *graph.Graph) int {
	n := 0
	for i := 0; i < g.MaxNodeIndex(); i++ {
		if g.GetNode(i) != nil {
			n++
		}
	}
	return n
}

func reportContexts(store *offload.ContextStore) {
	fmt.Println(sectionStyle.Render("Subgraph Contexts"))
	for _, identity := range store.Identities() {
		ctx, _ := store.Get(identity)
		fmt.Printf("  %s\n", identity)
		fmt.Printf("    outputs:       %d\n", len(ctx.OutputArgs()))
		fmt.Printf("    inputs:        %d\n", len(ctx.InputsAndInitializers()))
		if manual := ctx.ManualInputs(); len(manual) > 0 {
			names := make([]string, 0, len(manual))
			for _, arg := range manual {
				names = append(names, arg.Name())
			}
			fmt.Printf("    promoted:      %s\n", warnStyle.Render(strings.Join(names, ", ")))
		}
	}
	fmt.Println()
}

func reportCandidate(candidate *graph.Graph) {
	fmt.Println(sectionStyle.Render("Candidate Inputs"))
	inputs := candidate.GetInputsIncludingInitializers()
	if len(inputs) == 0 {
		fmt.Println("  (none)")
	}
	for _, in := range inputs {
		typeName := "?"
		if in.Type() != nil {
			typeName = in.Type().Elem.String()
		}
		fmt.Printf("  %s: %s\n", in.Name(), typeName)
	}
	fmt.Println()
}

func reportFoldableDQ(g *graph.Graph, logger logging.Logger) {
	fmt.Println(sectionStyle.Render("Foldable Dequantize Nodes"))
	sel, err := quantfold.SelectFoldableDQ(g, logger)
	if err != nil {
		log.Fatalf("Fold selection failed: %v", err)
	}
	if len(sel.Nodes) == 0 {
		fmt.Println("  (none)")
		fmt.Println()
		return
	}
	indices := make([]int, 0, len(sel.Nodes))
	for idx := range sel.Nodes {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		node := g.GetNode(idx)
		consumer := node.FirstConsumer()
		fmt.Printf("  %s -> %s\n", okStyle.Render(node.Name()), consumer.Name())
	}
	fmt.Println()
}

func reportCache(dir string, session *offload.Session, g *graph.Graph, identity string, logger logging.Logger) {
	fmt.Println(sectionStyle.Render("Partition Cache"))
	store, err := cache.New(dir, logger)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}

	parts, hit, err := store.Get(identity)
	if err != nil {
		log.Fatalf("Cache read failed: %v", err)
	}
	if hit {
		fmt.Printf("  %s %d partition(s) cached\n\n", okStyle.Render("HIT"), len(parts))
		return
	}

	// Seed the cache with the trivial whole-graph partition
	order, err := g.NodesInTopologicalOrder(graph.SortPriority)
	if err != nil {
		log.Fatalf("Topological sort failed: %v", err)
	}
	whole := &offload.SubGraph{Supported: true}
	for pos := range order {
		whole.Nodes = append(whole.Nodes, pos)
	}
	if err := store.Put(session.ID(), identity, offload.SubGraphCollection{whole}); err != nil {
		log.Fatalf("Cache write failed: %v", err)
	}
	fmt.Printf("  %s seeded whole-graph partition\n\n", warnStyle.Render("MISS"))
}
