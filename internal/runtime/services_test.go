package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven/mocks"
)

func TestServices_CapabilityFlagsFollowServices(t *testing.T) {
	config := domain.NewRuntimeConfig()
	services := NewServices(config)

	if config.EffectiveTier() != domain.TierBasic {
		t.Fatalf("expected basic tier with no services, got %s", config.EffectiveTier())
	}

	services.SetGenerative(mocks.NewMockGenerativeService())
	if config.EffectiveTier() != domain.TierAI {
		t.Errorf("expected ai tier with generative only, got %s", config.EffectiveTier())
	}

	services.SetVectorSearch(mocks.NewMockVectorSearch())
	if config.EffectiveTier() != domain.TierRAG {
		t.Errorf("expected rag tier with both services, got %s", config.EffectiveTier())
	}

	services.SetVectorSearch(nil)
	if config.EffectiveTier() != domain.TierAI {
		t.Errorf("expected ai tier after removing vector search, got %s", config.EffectiveTier())
	}
}

func TestServices_ValidateAndSetVectorSearch(t *testing.T) {
	config := domain.NewRuntimeConfig()
	services := NewServices(config)

	unhealthy := mocks.NewMockVectorSearch()
	unhealthy.HealthErr = errors.New("connection refused")

	err := services.ValidateAndSetVectorSearch(context.Background(), unhealthy)
	if err == nil {
		t.Fatal("expected validation error for unhealthy service")
	}
	if config.RetrievalAvailable() {
		t.Error("expected retrieval unavailable after failed validation")
	}

	healthy := mocks.NewMockVectorSearch()
	if err := services.ValidateAndSetVectorSearch(context.Background(), healthy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !config.RetrievalAvailable() {
		t.Error("expected retrieval available after successful validation")
	}
}

func TestServices_ValidateAndSetGenerative(t *testing.T) {
	config := domain.NewRuntimeConfig()
	services := NewServices(config)

	broken := mocks.NewMockGenerativeService()
	broken.PingErr = errors.New("timeout")

	if err := services.ValidateAndSetGenerative(context.Background(), broken); err == nil {
		t.Fatal("expected validation error for unreachable service")
	}
	if config.GenerativeAvailable() {
		t.Error("expected generative unavailable after failed validation")
	}
}

func TestServices_Close(t *testing.T) {
	config := domain.NewRuntimeConfig()
	services := NewServices(config)
	services.SetVectorSearch(mocks.NewMockVectorSearch())
	services.SetGenerative(mocks.NewMockGenerativeService())

	if err := services.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if services.VectorSearch() != nil || services.Generative() != nil {
		t.Error("expected services cleared after Close")
	}
	if config.EffectiveTier() != domain.TierBasic {
		t.Errorf("expected basic tier after Close, got %s", config.EffectiveTier())
	}
}
