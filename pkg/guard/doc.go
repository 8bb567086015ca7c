// Package guard implements the input admission pipeline: a length filter
// followed by an anchored allow-list validator, orchestrated by a Processor
// that emits one diagnostic record per request.
//
// Filter and Validator are pure and independently usable. The Processor wires
// them together with short-circuit semantics: input rejected by the filter is
// never shown to the validator. All components are immutable after
// construction and safe for concurrent use.
package guard
