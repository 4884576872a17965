// Package pipeline executes the investigation stages in sequence:
// adapter collection, evidence graph construction, and risk scoring.
// Each stage is a Step that receives the case and mutates it.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
// 1. It allows easy addition/removal of stages without modifying core logic
// 2. It provides consistent error handling and logging across stages
// 3. It supports cancellation via context for long-running investigations
//
// The pipeline supports both single investigations and batch processing
// with concurrency control using errgroup.
package pipeline
