// Command osusume is an interactive terminal front-end for the
// recommendation pipeline: type a request, get a short list back.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/osusume/osusume-backend/internal/anilist"
	"github.com/osusume/osusume-backend/internal/conf"
	"github.com/osusume/osusume-backend/internal/llm"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/osusume/osusume-backend/internal/recommend/biz"
	"go.uber.org/zap"
)

var configFile = flag.String("config", "config.yaml", "config file path")

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Keep the terminal clean; the REPL is the output.
	log, err := logger.NewWithOptions(
		logger.WithLevel("warn"),
		logger.WithFormat("console"),
		logger.WithOutput("console"),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	catalog := anilist.NewClient(config.AniList, log)

	llmClient, err := llm.NewOpenAIClient(config.LLM, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize LLM client:", err)
		os.Exit(1)
	}

	pipeline := biz.NewPipeline(
		biz.NewFilterExtractor(llmClient, log),
		biz.NewTasteExpander(catalog, llmClient, log),
		catalog,
		biz.NewFormatter(llmClient, log),
		log,
	)

	fmt.Println("Osusume - AI-powered anime recommender")
	fmt.Println("Describe what you feel like watching (e.g. 'a dark fantasy from 2020',")
	fmt.Println("'something like Ghost in the Shell'). Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}

		request := strings.TrimSpace(scanner.Text())
		if request == "" {
			continue
		}
		if request == "exit" || request == "quit" || request == "q" {
			break
		}

		items, err := pipeline.GetRecommendations(context.Background(), request)
		if err != nil {
			log.Error("recommendation failed", zap.Error(err))
			fmt.Println("Sorry, an error occurred while processing your request. Please try again with a different query.")
			continue
		}

		if len(items) == 0 {
			fmt.Println("No recommendations found for that request.")
			continue
		}

		for i, item := range items {
			fmt.Printf("%d. %s\n   %s\n", i+1, item.Title, item.Description)
		}
	}
}
