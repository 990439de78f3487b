/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import "github.com/humaidq/nutrimark/logging"

var logger = logging.Logger(logging.SourceAnalysis)
