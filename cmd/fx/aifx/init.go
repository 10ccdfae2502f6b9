package aifx

import (
	"log"
	"os"

	"go.uber.org/fx"

	"kairos/pkg/utils"
)

var Module = fx.Provide(provideRegionProposer)

// provideRegionProposer selects the collaborator backend by AI_PROVIDER:
// "gemini" or "openai" (default).
func provideRegionProposer() utils.RegionProposerInterface {
	switch os.Getenv("AI_PROVIDER") {
	case "gemini":
		client, err := utils.NewGeminiRegionClient(os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatalf("Failed to init gemini client: %v", err)
		}
		return client
	default:
		return utils.NewOpenAIRegionClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))
	}
}
