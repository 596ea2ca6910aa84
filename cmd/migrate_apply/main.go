package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"task_manager/internal/db"
	"task_manager/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	apply := flag.Bool("apply", false, "apply migrations (default lists them)")
	migDir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	files, err := filepath.Glob(filepath.Join(*migDir, "*.sql"))
	if err != nil {
		logger.Fatal("read migrations dir", "error", err)
	}
	sort.Strings(files)

	if !*apply {
		for _, f := range files {
			fmt.Println(filepath.Base(f))
		}
		return
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	defer pool.Close()

	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			logger.Fatal("read migration", "file", f, "error", err)
		}
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			logger.Fatal("apply migration", "file", f, "error", err)
		}
		fmt.Printf("applied %s\n", filepath.Base(f))
	}
}
