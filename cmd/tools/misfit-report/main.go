// Command misfit-report renders a standalone HTML report of recorded
// preprocessing runs from the run database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/halfspace-data/seisprep/internal/db"
	"github.com/halfspace-data/seisprep/internal/seis/monitor"
)

func main() {
	dbPath := flag.String("db", "seisprep.db", "run database file")
	out := flag.String("out", "misfit-report.html", "output HTML file")
	limit := flag.Int("limit", 50, "number of runs to include (0 = all)")
	flag.Parse()

	store, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("misfit-report: %v", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(*limit)
	if err != nil {
		log.Fatalf("misfit-report: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("misfit-report: %v", err)
	}
	defer f.Close()

	if err := monitor.RenderRunReport(f, runs); err != nil {
		log.Fatalf("misfit-report: %v", err)
	}
	fmt.Println(*out)
}
