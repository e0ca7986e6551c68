// Copyright 2025 CodeBang Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides the embedding provider abstraction for atomkb.
//
// The Embedder interface wraps an external text→vector embedding service.
// The core pipeline and search service depend only on this abstraction,
// never on a concrete provider.
//
// # Implementation Packages
//
//   - ai/openai: production adapter for OpenAI-compatible APIs, with
//     rate-limit retry (exponential backoff with jitter) and a bounded
//     worker pool for batch calls
//   - ai/mock: deterministic test double with injectable behavior
//
// # Failure Taxonomy
//
// All adapter failures resolve to one of three sentinels checkable with
// errors.Is: ErrInvalidInput (oversized text, fails only its own batch
// slot), ErrRateLimited (provider throttling, retried internally), and
// ErrProviderUnavailable (transport/auth failures, deadline exceeded, or
// exhausted retries).
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithModel("text-embedding-3-small"))
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "hello world")
package ai
