package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"voice-corpus-api/config"
	"voice-corpus-api/services"

	"github.com/joho/godotenv"
)

// Operator tooling: report and repair recordings that collected more than
// one review row.
func main() {
	stats := flag.Bool("stats", false, "print duplicate review statistics and exit")
	repair := flag.Bool("repair", false, "delete duplicate reviews, keeping the oldest per recording")
	dryRun := flag.Bool("dry-run", false, "with -repair, list duplicates without deleting")
	flag.Parse()

	if !*stats && !*repair {
		flag.Usage()
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	config.InitDB()

	audit := services.NewReviewAuditService(config.DB)
	ctx := context.Background()

	if *stats {
		report, err := audit.Stats(ctx)
		if err != nil {
			log.Fatalf("Failed to compute stats: %v", err)
		}
		fmt.Printf("Total reviews:         %d\n", report.TotalReviews)
		fmt.Printf("Unique recordings:     %d\n", report.UniqueRecordings)
		fmt.Printf("Duplicate recordings:  %d\n", report.DuplicateRecordings)
		fmt.Printf("Duplicate review rows: %d\n", report.DuplicateRows)
	}

	if !*repair {
		return
	}

	if *dryRun {
		duplicates, err := audit.FindDuplicates(ctx)
		if err != nil {
			log.Fatalf("Failed to find duplicates: %v", err)
		}
		for recordingID, extras := range duplicates {
			fmt.Printf("recording %s: %d duplicate review(s) %v\n", recordingID, len(extras), extras)
		}
		fmt.Printf("%d recording(s) would be repaired\n", len(duplicates))
		return
	}

	summary, err := audit.RemoveDuplicates(ctx)
	if err != nil {
		// Partial progress matters for the operator: report it before dying.
		if summary != nil {
			log.Printf("Removed %d of %d duplicates before failure", summary.DuplicatesRemoved, summary.DuplicatesFound)
		}
		log.Fatalf("Cleanup failed: %v", err)
	}
	fmt.Printf("Duplicates found:   %d\n", summary.DuplicatesFound)
	fmt.Printf("Duplicates removed: %d\n", summary.DuplicatesRemoved)
	fmt.Printf("Unique recordings:  %d\n", summary.UniqueRecordings)
}
