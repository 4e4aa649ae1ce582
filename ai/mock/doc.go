// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Oracle,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockOracle := mock.NewMockOracle()
//	mockOracle.CompleteFunc = func(ctx context.Context, req ai.CompletionRequest) (string, error) {
//	    return `{"matches":[{"candidate_index":1,"match_score":9,"reason":"shared focus"}]}`, nil
//	}
//
//	// Check call counts
//	count := mockOracle.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockOracle: Returns an empty JSON matches object or a fixed sentence
//   - MockProvider: Aggregates mock embedder and oracle
package mock
