// Copyright 2025 Tastetrail Authors
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


// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs (Ollama, LocalAI, vLLM, or the real thing) via langchaingo.
//
// The embedder is rate limited; the intent parser uses JSON-mode chat
// completions with fence stripping, JSON repair, and bounded parse retries,
// since small local models routinely emit slightly malformed JSON.
package openai
