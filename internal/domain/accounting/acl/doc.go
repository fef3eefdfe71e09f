// Package acl provides Anti-Corruption Layer (ACL) components for the
// accounting bounded context. External modules (sales, purchasing, inventory)
// never hand their own document types to the ledger; their events are
// translated here into the generic posting payload the journaling service
// consumes, keeping the accounting domain free of direct dependencies on
// other bounded contexts.
package acl
