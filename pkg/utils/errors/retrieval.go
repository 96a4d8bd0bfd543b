package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

func init() {
	RegisterService(ServiceRetrieval, "retrieval")
	RegisterService(ServiceThirdPartyLLM, "llm-provider")
}

// Retrieval service errors.
var (
	// ErrEmptyCorpus indicates a corpus file with no usable documents.
	ErrEmptyCorpus = NewRequestErr(ServiceRetrieval, 1, "Corpus contains no documents")

	// ErrEmptyQuery indicates a blank retrieval query.
	ErrEmptyQuery = NewRequestErr(ServiceRetrieval, 2, "Query must not be empty")

	// ErrEmptyDocument indicates an uploaded document with no content.
	ErrEmptyDocument = NewRequestErr(ServiceRetrieval, 3, "Document content must not be empty")

	// ErrCorpusNotFound indicates the corpus file does not exist.
	ErrCorpusNotFound = NewNotFoundErr(ServiceRetrieval, 1, "Corpus file not found")

	// ErrChunkNotFound indicates the requested chunk key does not exist.
	ErrChunkNotFound = NewNotFoundErr(ServiceRetrieval, 2, "Chunk not found")

	// ErrCorpusLoad indicates the corpus file could not be read or parsed.
	ErrCorpusLoad = NewInternalErr(ServiceRetrieval, 1, "Failed to load corpus")

	// ErrStoreUnavailable indicates the vector store cannot be reached.
	ErrStoreUnavailable = NewNetworkErr(ServiceRetrieval, 1, "Vector store unavailable")
)

// LLM provider errors.
var (
	// ErrEmbedding indicates the embedding provider call failed.
	// HTTP 502 because the failure originates upstream.
	ErrEmbedding = NewError(ServiceThirdPartyLLM, CategoryNetwork, 1,
		http.StatusBadGateway, codes.Unavailable, "Embedding request failed")

	// ErrGeneration indicates the chat completion call failed.
	ErrGeneration = NewError(ServiceThirdPartyLLM, CategoryNetwork, 2,
		http.StatusBadGateway, codes.Unavailable, "Generation request failed")

	// ErrProviderTimeout indicates the provider did not answer in time.
	ErrProviderTimeout = NewTimeoutErr(ServiceThirdPartyLLM, 1, "LLM provider timeout")

	// ErrProviderNotConfigured indicates no provider matches the
	// configured name.
	ErrProviderNotConfigured = NewError(ServiceThirdPartyLLM, CategoryConfig, 1,
		http.StatusInternalServerError, codes.Internal, "LLM provider not configured")
)
