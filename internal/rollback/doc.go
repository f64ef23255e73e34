// Package rollback implements the Rollback Engine: the reverse-order,
// precondition-checked undo of a RollbackDoc emitted by the Executor.
package rollback
