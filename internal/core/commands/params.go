// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) Command interface that make up the preview pipeline:
// reading the request, downloading the cover, rendering, uploading, notifying
// and releasing the request's temporary files.
//
// Commands communicate through the cor.Context. Besides the piped CtxIn and
// CtxOut values, the named parameters below stay available to every later
// command of the same request.
package commands

// GetItemParameterName is the context key of the normalized *model.Item.
func GetItemParameterName() string {
	return "__ITEM__"
}

// GetRequestParameterName is the context key of the *model.GenerateRequest.
func GetRequestParameterName() string {
	return "__REQUEST__"
}

// GetRequestDirParameterName is the context key of the per-request working
// directory.
func GetRequestDirParameterName() string {
	return "__REQUEST_DIR__"
}

// GetUploadKeyParameterName is the context key of the uploaded object key.
func GetUploadKeyParameterName() string {
	return "__UPLOAD_KEY__"
}

// OutputDirName is the request sub directory the renderer writes into.
const OutputDirName = "output"
