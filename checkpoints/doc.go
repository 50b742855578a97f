/*
Package checkpoints implements checkpoint based consensus hardening.

A Table pins the block hash expected at a set of heights. Blocks that disagree
with a pinned hash are a hard checkpoint violation and must be rejected by the
caller no matter how much work the competing chain carries. Heights that are
not pinned are never second-guessed here.

On top of the static table the package computes a moving sync checkpoint: the
ancestor of the best chain tip that trails it by SyncCheckpointSpan blocks.
Reorganizations that would replace a block at or below the sync checkpoint are
refused.

The block tree itself is not owned by this package. Callers pass the best tip
and a hash index in explicitly, and must keep the parent links they expose
stable for the duration of a call.
*/
package checkpoints
