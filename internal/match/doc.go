// Package match implements the Match Validator: it scores a
// CandidateMetadata against one or more external-database LookupRecords,
// classifies the result into a MatchQuality, and applies the "miss rather
// than misprocess" policy — only Exact/High (and, opt-in, Medium) qualify
// for unattended processing.
package match
