// Command seed-data generates a deterministic synthetic opportunity CSV
// for demos and local testing. The same seed always produces the same
// file. Distributions are stage-correlated so the risk rules have
// something realistic to chew on.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

var accountNames = []string{
	"Acme Bank",
	"NorthTel",
	"City Health",
	"FinPlus",
	"Macro Finance",
	"Prairie Telecom",
	"Evergreen Health",
	"Summit Insurance",
	"Velocity Capital",
	"Northern Grid",
	"Maple Retail",
	"Skyline Logistics",
}

// stageWeight biases generation toward middle stages.
type stageWeight struct {
	stage  string
	weight int
}

var stageWeights = []stageWeight{
	{"Prospecting", 1},
	{"Qualification", 2},
	{"Discovery", 3},
	{"Proposal", 3},
	{"Negotiation", 2},
	{"Closed Won", 1},
	{"Closed Lost", 1},
}

// probRange is the win-probability band per stage.
var probRanges = map[string][2]float64{
	"Prospecting":   {0.05, 0.2},
	"Qualification": {0.1, 0.3},
	"Discovery":     {0.2, 0.4},
	"Proposal":      {0.3, 0.6},
	"Negotiation":   {0.4, 0.8},
	"Closed Won":    {0.8, 1.0},
	"Closed Lost":   {0.0, 0.15},
}

var positiveNotes = []string{
	"Client very engaged and sees strong value in the solution.",
	"Stakeholders aligned and interested in moving forward.",
	"Technical fit confirmed; next step is commercial review.",
	"Positive feedback from the last demo; awaiting internal approval.",
	"Customer sees us as preferred vendor pending contract review.",
}

var negativeNotes = []string{
	"Customer raised concern about integration timeline and complexity.",
	"Budget constraints mentioned; might delay decision.",
	"Competitor mentioned as alternative with lower price.",
	"Project on hold due to internal re-org; risk of delay.",
	"Client thinks current proposal is too expensive.",
	"Decision maker is blocked and wants to pause discussion for now.",
	"Risk of losing to competitor if we cannot improve proposal.",
}

var neutralNotes = []string{
	"Waiting for customer to confirm internal meeting date.",
	"Customer asked for additional documentation.",
	"Internal review ongoing; follow-up planned next week.",
	"Client requested a high-level summary for leadership.",
	"No major concerns raised; next demo is being scheduled.",
}

type generator struct {
	rng *rand.Rand
}

func (g *generator) stage() string {
	total := 0
	for _, sw := range stageWeights {
		total += sw.weight
	}
	n := g.rng.Intn(total)
	for _, sw := range stageWeights {
		n -= sw.weight
		if n < 0 {
			return sw.stage
		}
	}
	return stageWeights[len(stageWeights)-1].stage
}

func (g *generator) probability(stage string) float64 {
	band, ok := probRanges[stage]
	if !ok {
		band = [2]float64{0.1, 0.5}
	}
	p := band[0] + g.rng.Float64()*(band[1]-band[0])
	return float64(int(p*100+0.5)) / 100
}

func (g *generator) amount(stage string) int {
	switch stage {
	case "Prospecting", "Qualification":
		return 10000 + g.rng.Intn(50001)
	case "Discovery", "Proposal":
		return 20000 + g.rng.Intn(100001)
	default:
		return 30000 + g.rng.Intn(170001)
	}
}

func (g *generator) daysInStage(stage string) int {
	switch stage {
	case "Prospecting", "Qualification":
		return 1 + g.rng.Intn(40)
	case "Discovery", "Proposal", "Negotiation":
		return 5 + g.rng.Intn(56)
	default:
		// closed deals may have sat in the final stage a while
		return 10 + g.rng.Intn(81)
	}
}

func (g *generator) lastContactDaysAgo(stage string) int {
	switch stage {
	case "Prospecting", "Qualification":
		return 3 + g.rng.Intn(28)
	case "Discovery", "Proposal", "Negotiation":
		return g.rng.Intn(31)
	default:
		return 7 + g.rng.Intn(54)
	}
}

// notes mixes positive, neutral, and negative pools so the keyword rules
// fire on a realistic share of rows.
func (g *generator) notes(stage string) string {
	r := g.rng.Float64()
	var base string
	switch {
	case r < 0.3:
		base = positiveNotes[g.rng.Intn(len(positiveNotes))]
	case r < 0.6:
		base = neutralNotes[g.rng.Intn(len(neutralNotes))]
	default:
		base = negativeNotes[g.rng.Intn(len(negativeNotes))]
	}

	switch stage {
	case "Prospecting", "Qualification":
		if g.rng.Float64() < 0.3 {
			base += " Prospect is still defining scope and requirements."
		}
	case "Proposal", "Negotiation":
		if g.rng.Float64() < 0.3 {
			base += " Legal and procurement may add additional delays."
		}
	}
	return base
}

func (g *generator) row(idx int) []string {
	stage := g.stage()
	return []string{
		fmt.Sprintf("OPP-%03d", idx),
		accountNames[g.rng.Intn(len(accountNames))],
		stage,
		fmt.Sprintf("%d", g.amount(stage)),
		fmt.Sprintf("%.2f", g.probability(stage)),
		fmt.Sprintf("%d", g.daysInStage(stage)),
		fmt.Sprintf("%d", g.lastContactDaysAgo(stage)),
		g.notes(stage),
	}
}

func main() {
	rows := flag.Int("rows", 200, "number of opportunities to generate")
	out := flag.String("out", "data/sample_opportunities.csv", "output CSV path")
	seed := flag.Int64("seed", 42, "random seed (same seed, same file)")
	flag.Parse()

	if err := run(*rows, *out, *seed); err != nil {
		fmt.Fprintln(os.Stderr, "seed-data:", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d opportunities in %s\n", *rows, *out)
}

func run(rows int, out string, seed int64) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"id",
		"account_name",
		"stage",
		"amount",
		"probability",
		"days_in_stage",
		"last_contact_days_ago",
		"notes",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	g := &generator{rng: rand.New(rand.NewSource(seed))}
	for i := 1; i <= rows; i++ {
		if err := w.Write(g.row(i)); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
