// SPDX-FileCopyrightText: 2026 smart-classroom authors
//
// SPDX-License-Identifier: Apache-2.0

package system

// Version is the service version, overridden at build time via
// -ldflags "-X .../pkg/system.Version=...".
var Version = "0.0.0-dev"

// Commit is the git commit the binary was built from.
var Commit = ""
