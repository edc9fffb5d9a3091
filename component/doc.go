// Package component defines the polymorphic configuration envelope shared by
// every configurable unit in agentflow (models, agents, inputs, tools,
// termination conditions and teams).
//
// The wire representation is a flat envelope whose `label` field selects the
// shape of the nested `config` object. In Go the variants form a closed sum
// type: each config struct implements the unexported isConfig marker, so the
// compiler enforces exhaustiveness where it matters and external packages
// cannot inject new variants. Decoding validates the discriminant before the
// payload is touched and fails with a typed error on mismatch.
package component
