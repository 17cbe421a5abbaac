// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

// Package shared holds values shared by the public packages.
package shared

import (
	"net/http"
	"time"
)

// DefaultClient is our default shared HTTP client.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// AuthorityPublicCloud is the authority of the worldwide cloud.
const AuthorityPublicCloud = "https://login.microsoftonline.com/common"
