package main

import (
	"context"
	"delivery-planning-session/internal/adapters/canvas"
	"delivery-planning-session/internal/adapters/chart"
	"delivery-planning-session/internal/adapters/notify"
	"delivery-planning-session/internal/adapters/planner"
	"delivery-planning-session/internal/config"
	"delivery-planning-session/internal/services"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// plan runs one planning session from an items file and prints the result.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	itemsPath := flag.String("items", "data/items.example.json", "JSON file of {name, weight, value, lat, lng} items")
	capacity := flag.Float64("capacity", cfg.DefaultCapacity, "vehicle capacity")
	algorithm := flag.String("algorithm", cfg.DefaultAlgorithm, "tsp, prim or kruskal")
	compare := flag.Bool("compare", false, "ask the planner to compare all algorithms")
	geojsonOut := flag.String("geojson", "", "write the final map state as GeoJSON to this file")
	flag.Parse()

	drafts, err := services.LoadDraftsFromJSON(*itemsPath)
	if err != nil {
		log.Fatal(err)
	}

	p, _, err := planner.FromConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}

	mapCanvas := canvas.NewMemoryCanvas()
	session, err := services.NewPlanningSession(uuid.NewString(), services.SessionConfig{
		Origin:     cfg.Origin,
		OriginName: cfg.OriginName,
		Values:     cfg.Values,
	}, services.SessionDeps{
		Planner:  p,
		Canvas:   mapCanvas,
		Charts:   chart.NewMemoryChartEngine(),
		Notifier: notify.NewLogNotifier(),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	if _, err := session.ImportItems(drafts); err != nil {
		log.Fatalf("import items: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = session.OptimizeAndWait(ctx, services.OptimizeOptions{
		Capacity:   *capacity,
		Algorithm:  *algorithm,
		CompareAll: *compare,
	})
	if err != nil {
		log.Fatalf("optimize: %v", err)
	}

	printView(session.View())

	if *geojsonOut != "" {
		b, err := mapCanvas.MarshalGeoJSON()
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*geojsonOut, b, 0o644); err != nil {
			log.Fatalf("write geojson: %v", err)
		}
		log.Printf("wrote map state to %s", *geojsonOut)
	}
}

func printView(v services.SessionView) {
	s := v.Summary
	if s == nil {
		fmt.Println("no result")
		return
	}

	fmt.Printf("Algorithm:      %s\n", s.Algorithm)
	fmt.Printf("Total distance: %.2f km\n", s.TotalDistanceKm)
	fmt.Printf("Total weight:   %.2f\n", s.TotalWeight)
	fmt.Printf("Total value:    %.2f\n", s.TotalValue)
	fmt.Printf("Selected (%d):\n", s.SelectedCount)
	for _, r := range s.Rows {
		fmt.Printf("  %-20s weight=%.2f value=%.2f taken=%.0f%%\n", r.Name, r.Weight, r.Value, r.FractionPercent)
	}

	fmt.Println("Route:")
	for i, stop := range s.Stops {
		fmt.Printf("  %d. %s\n", i+1, stop)
	}

	if len(v.Comparison) > 0 {
		fmt.Println("Comparison:")
		for _, c := range v.Comparison {
			fmt.Printf("  %-32s %.2f km\n", c.Label, c.DistanceKm)
		}
	}
}
