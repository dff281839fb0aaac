package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/catsfront/catsfront/internal/apiclient"
	"github.com/catsfront/catsfront/internal/model"
	"github.com/catsfront/catsfront/internal/repository"
)

var defaultCats = []model.CatInput{
	{Name: "Tom", Breed: "Tabby", Age: 3, Weight: 4.5},
	{Name: "Luna", Breed: "Siamese", Age: 2, Weight: 3.8},
	{Name: "Oliver", Breed: "Maine Coon", Age: 5, Weight: 7.2},
	{Name: "Cleo", Breed: "Sphynx", Age: 1.5, Weight: 3.1},
}

// creator matches the CreateCat method of the repository and Create of the API client.
type creator func(ctx context.Context, in model.CatInput) (*model.Cat, error)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string; seeds the table directly")
		apiURL      = flag.String("api-url", os.Getenv("CATS_API_URL"), "Cats API base URL; used when -database-url is empty")
		input       = flag.String("file", "", "JSON file with an array of cats; defaults to a built-in set")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	cats, err := loadCats(*input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var create creator
	switch {
	case *databaseURL != "":
		repo, err := repository.New(ctx, *databaseURL)
		if err != nil {
			fmt.Fprintln(os.Stderr, "connect database:", err)
			os.Exit(1)
		}
		defer repo.Close()
		if err := repo.EnsureSchema(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "ensure schema:", err)
			os.Exit(1)
		}
		create = repo.CreateCat
	case *apiURL != "":
		client, err := apiclient.New(*apiURL)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		create = client.Create
	default:
		fmt.Fprintln(os.Stderr, "DATABASE_URL or CATS_API_URL is required")
		os.Exit(1)
	}

	created := make([]*model.Cat, 0, len(cats))
	for _, in := range cats {
		cat, err := create(ctx, in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", in.Name, err)
			os.Exit(1)
		}
		created = append(created, cat)
	}

	switch strings.ToLower(*format) {
	case "plain":
		for _, cat := range created {
			fmt.Printf("%d\t%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Breed,
				model.FormatAmount(cat.Age), model.FormatAmount(cat.Weight))
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(created)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func loadCats(path string) ([]model.CatInput, error) {
	if path == "" {
		return defaultCats, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cats []model.CatInput
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, in := range cats {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("cat %d: %w", i, err)
		}
	}
	return cats, nil
}
