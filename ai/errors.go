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


package ai

import "errors"

// Embedding provider failure taxonomy.
var (
	// ErrProviderUnavailable indicates a transport or auth failure, a
	// deadline exceeded, or exhausted rate-limit retries.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrRateLimited indicates the provider signaled throttling.
	ErrRateLimited = errors.New("embedding provider rate limited")

	// ErrInvalidInput indicates text exceeding the provider's size limit.
	ErrInvalidInput = errors.New("input exceeds provider size limit")
)
