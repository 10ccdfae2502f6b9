package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"kairos/internal/models/domain_models"
)

// GeminiRegionClient implements RegionProposerInterface using Google's
// Gemini models. Free-tier friendly alternative to the OpenAI client.
type GeminiRegionClient struct {
	client *genai.Client
	model  string
}

func NewGeminiRegionClient(apiKey, model string) (RegionProposerInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiRegionClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiRegionClient) ProposeRegions(ctx context.Context, destination string, places []domain_models.PlaceProjection) (*domain_models.RegionProposal, error) {
	payload, err := json.Marshal(places)
	if err != nil {
		return nil, err
	}

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("Group the following places of %s into 2-6 geographically coherent named regions.\n", destination))
	prompt.WriteString("Places (JSON):\n")
	prompt.Write(payload)
	prompt.WriteString("\n\nUse ONLY place names from the list, verbatim. ")
	prompt.WriteString("Every region needs a snake_case id, a short name and a one-line description. ")
	prompt.WriteString(`Return JSON: {"name":"<destination>","regions":[{"id":"north_side","name":"North Side","description":"...","recommended_days":2,"places":[{"name":"...","priority":"main"}]}]}`)

	raw, err := c.generate(ctx, prompt.String())
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

func (c *GeminiRegionClient) CurateRegion(ctx context.Context, destination string, region domain_models.ProposedRegion, pool []domain_models.PlaceProjection) (*domain_models.ProposedRegion, error) {
	regionJSON, err := json.Marshal(region)
	if err != nil {
		return nil, err
	}
	poolJSON, err := json.Marshal(pool)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Curate this region of %s: keep the places worth a traveler's time, assign subcategory, priority and up to 3 specialty tags each. Use ONLY names present in the metadata.\nRegion: %s\nMetadata: %s\nReturn the region JSON in the same shape.",
		destination, regionJSON, poolJSON)

	raw, err := c.generate(ctx, prompt)
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

func (c *GeminiRegionClient) ProposeTravelProfile(ctx context.Context, destination string, regionNames []string) (*domain_models.TravelProfile, error) {
	prompt := fmt.Sprintf(
		`Classify the geography of %s (regions: %s). Return JSON: {"spread":"compact|default|wide","min_days":2}`,
		destination, strings.Join(regionNames, ", "))

	raw, err := c.generate(ctx, prompt)
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

func (c *GeminiRegionClient) generate(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTopP(0.5)
	m.SetTopK(20)
	m.SetTemperature(0.1)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty generation")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}
