package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"kairos/internal/models/domain_models"
)

// OpenAIRegionClient implements RegionProposerInterface on the OpenAI chat
// API.
type OpenAIRegionClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIRegionClient(apiKey, model string) RegionProposerInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIRegionClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIRegionClient) ProposeRegions(ctx context.Context, destination string, places []domain_models.PlaceProjection) (*domain_models.RegionProposal, error) {
	payload, err := json.Marshal(places)
	if err != nil {
		return nil, err
	}

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("Group the following places of %s into 2-6 geographically coherent named regions.\n", destination))
	prompt.WriteString("Places (JSON):\n")
	prompt.Write(payload)
	prompt.WriteString("\n\nRules:\n")
	prompt.WriteString("1. Use ONLY place names from the list, verbatim\n")
	prompt.WriteString("2. Every region needs a snake_case id, a short name and a one-line description\n")
	prompt.WriteString("3. Assign priority \"main\" to landmark places, \"optional\" to the rest\n")
	prompt.WriteString("4. Return ONLY valid JSON\n\n")
	prompt.WriteString(`Format: {"name":"<destination>","regions":[{"id":"north_side","name":"North Side","description":"...","recommended_days":2,"places":[{"name":"...","category":"...","subcategory":"...","priority":"main"}]}]}`)

	raw, err := c.complete(ctx, prompt.String())
	if err != nil {
		return nil, err
	}

	var proposal domain_models.RegionProposal
	if err := json.Unmarshal([]byte(raw), &proposal); err != nil {
		return nil, fmt.Errorf("decode region proposal: %w", err)
	}
	if len(proposal.Regions) == 0 {
		return nil, ErrRegionProposalEmpty
	}
	if proposal.Name == "" {
		proposal.Name = destination
	}
	return &proposal, nil
}

func (c *OpenAIRegionClient) CurateRegion(ctx context.Context, destination string, region domain_models.ProposedRegion, pool []domain_models.PlaceProjection) (*domain_models.ProposedRegion, error) {
	regionJSON, err := json.Marshal(region)
	if err != nil {
		return nil, err
	}
	poolJSON, err := json.Marshal(pool)
	if err != nil {
		return nil, err
	}

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("Curate this region of %s: keep the places worth a traveler's time, assign subcategory, priority and up to 3 specialty tags each.\n", destination))
	prompt.WriteString("Region (JSON):\n")
	prompt.Write(regionJSON)
	prompt.WriteString("\nAvailable place metadata (JSON):\n")
	prompt.Write(poolJSON)
	prompt.WriteString("\n\nUse ONLY names present in the metadata. Return ONLY the region JSON in the same shape.")

	raw, err := c.complete(ctx, prompt.String())
	if err != nil {
		return nil, err
	}

	var curated domain_models.ProposedRegion
	if err := json.Unmarshal([]byte(raw), &curated); err != nil {
		return nil, fmt.Errorf("decode curated region: %w", err)
	}
	if curated.ID == "" {
		curated.ID = region.ID
	}
	return &curated, nil
}

func (c *OpenAIRegionClient) ProposeTravelProfile(ctx context.Context, destination string, regionNames []string) (*domain_models.TravelProfile, error) {
	prompt := fmt.Sprintf(
		"Classify the geography of %s (regions: %s). Return ONLY JSON: {\"spread\":\"compact|default|wide\",\"min_days\":<int>}",
		destination, strings.Join(regionNames, ", "))

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var profile domain_models.TravelProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode travel profile: %w", err)
	}
	if profile.Spread == "" {
		profile.Spread = domain_models.SpreadDefault
	}
	return &profile, nil
}

func (c *OpenAIRegionClient) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a travel geography assistant. Respond with raw JSON only."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
