// Command recount-clicks recomputes the denormalized click_count on
// every video from the click event log. Run it after a click reset or
// whenever the counters have drifted from the events.
//
// Usage:
//
//	go run scripts/recount-clicks.go -database-url postgres://...
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		dryRun      = flag.Bool("dry-run", false, "Report drift without writing")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open database:", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetConnMaxLifetime(time.Minute)

	rows, err := db.Query(`
		SELECT v.id, v.click_count, COUNT(c.id) AS actual
		FROM videos v
		LEFT JOIN click_events c ON c.video_id = v.id
		GROUP BY v.id, v.click_count
		HAVING v.click_count <> COUNT(c.id)
		ORDER BY v.id
	`)
	if err != nil {
		fmt.Fprintln(os.Stderr, "query drift:", err)
		os.Exit(1)
	}
	defer rows.Close()

	type drift struct {
		id     string
		stored int64
		actual int64
	}
	var drifted []drift

	for rows.Next() {
		var d drift
		if err := rows.Scan(&d.id, &d.stored, &d.actual); err != nil {
			fmt.Fprintln(os.Stderr, "scan:", err)
			os.Exit(1)
		}
		drifted = append(drifted, d)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "iterate:", err)
		os.Exit(1)
	}

	if len(drifted) == 0 {
		fmt.Println("all click counts match the event log")
		return
	}

	for _, d := range drifted {
		fmt.Printf("video %s: stored=%d actual=%d\n", d.id, d.stored, d.actual)
	}

	if *dryRun {
		fmt.Printf("%d videos drifted (dry run, nothing written)\n", len(drifted))
		return
	}

	result, err := db.Exec(`
		UPDATE videos v
		SET click_count = sub.actual
		FROM (
			SELECT v2.id, COUNT(c.id) AS actual
			FROM videos v2
			LEFT JOIN click_events c ON c.video_id = v2.id
			GROUP BY v2.id
		) sub
		WHERE v.id = sub.id AND v.click_count <> sub.actual
	`)
	if err != nil {
		fmt.Fprintln(os.Stderr, "update counts:", err)
		os.Exit(1)
	}

	updated, _ := result.RowsAffected()
	fmt.Printf("updated %d videos\n", updated)
}
