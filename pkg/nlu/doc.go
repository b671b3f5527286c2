/*
Package nlu implements slot extraction and intent classification.

Each concern has a heuristic strategy that never fails and a model-backed
strategy that delegates to a ports.TextGenerator. Model-backed strategies
absorb every delegate failure: extraction degrades to an empty result and
classification reports an inconclusive answer or defers to a fallback
classifier. ResolveTarget is the single policy that turns an inconclusive
classification into a concrete next node.
*/
package nlu
