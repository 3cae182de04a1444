// Command sahayak runs the bilingual tutoring service: a retrieval-graded
// question-answering pipeline with per-student long-term memory, exposed over
// HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/sahayak-ai/sahayak/config"
	"github.com/sahayak-ai/sahayak/llm"
	"github.com/sahayak-ai/sahayak/memory"
	"github.com/sahayak-ai/sahayak/memory/store/inmem"
	"github.com/sahayak-ai/sahayak/memory/store/sqlite"
	"github.com/sahayak-ai/sahayak/pipeline"
	"github.com/sahayak-ai/sahayak/retrieval/chromem"
	"github.com/sahayak-ai/sahayak/server"
	"github.com/sahayak-ai/sahayak/websearch"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MAIN] config: %v", err)
	}

	client := buildLLM(cfg)
	retriever := buildRetriever(cfg)
	search := buildSearch(cfg)
	profiles := buildProfileStore(cfg)

	p := pipeline.New(client, retriever, search, profiles,
		pipeline.WithCheckpointer(pipeline.NewBoundedCheckpointer(cfg.MaxSessions)),
		pipeline.WithStepTimeout(cfg.StepTimeout),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(p),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[MAIN] listening on :%s (mock_llm=%v, profiles=%s)", cfg.Port, cfg.UseMockLLM, cfg.ProfileBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[MAIN] server: %v", err)
	}
}

func buildLLM(cfg *config.Config) llm.Client {
	if !cfg.UseMockLLM {
		return llm.NewAnthropic(llm.AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.Model,
		})
	}

	log.Println("[MAIN] using mock LLM")
	mock := llm.NewMock()
	mock.CompleteFunc = func(system, prompt string) (string, error) {
		return "[mock] এটি একটি পরীক্ষামূলক উত্তর। (This is a mock answer.)", nil
	}
	mock.ExtractFunc = func(system, prompt string, tool llm.ToolSpec) (json.RawMessage, error) {
		if tool.Name == "grade" {
			return json.RawMessage(`{"binary_output": "yes"}`), nil
		}
		return json.RawMessage(`{}`), nil
	}
	return mock
}

func buildRetriever(cfg *config.Config) *chromem.Store {
	var embedding = chromem.NewMockEmbedding(64)
	if !cfg.UseMockLLM {
		embedding = chromem.NewOpenAICompatEmbedding(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	}

	store, err := chromem.New(chromem.Config{
		Embedding: embedding,
		TopK:      cfg.TopK,
	})
	if err != nil {
		log.Fatalf("[MAIN] vector store: %v", err)
	}

	if cfg.DocsDir != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := store.IngestDir(ctx, cfg.DocsDir); err != nil {
			log.Fatalf("[MAIN] ingest %s: %v", cfg.DocsDir, err)
		}
	}
	return store
}

func buildSearch(cfg *config.Config) websearch.Client {
	if cfg.UseMockLLM {
		return websearch.Func(func(ctx context.Context, query string) (string, error) {
			return fmt.Sprintf("[mock] web result for: %s", query), nil
		})
	}

	serper, err := websearch.NewSerper(websearch.SerperConfig{APIKey: cfg.SerperAPIKey})
	if err != nil {
		log.Fatalf("[MAIN] web search: %v", err)
	}
	return serper
}

func buildProfileStore(cfg *config.Config) memory.ProfileStore {
	if cfg.ProfileBackend == "sqlite" {
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("[MAIN] profile store: %v", err)
		}
		return store
	}
	return inmem.New()
}
