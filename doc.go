// Package micropdf provides the resource-management substrate of a PDF
// renderer: a process-wide handle allocator, per-kind handle tables,
// and a budgeted, multi-policy [Store] for derived, re-creatable
// resources (decoded fonts, images, glyphs, display lists).
//
// Producers insert a freshly created value into the [Table] of its
// kind to obtain an opaque [Handle] that can safely cross an unmanaged
// boundary, and optionally register the handle with a [Store] under a
// content key and byte size to make it cacheable. Consumers try
// [Store.FindByKey] first and fall back to recreating the resource on
// a miss; a known handle is dereferenced via [Table.Get].
//
// Glossary and invariants:
//
//   - Handle
//
//     Opaque stable integer identifying a resource across the foreign
//     boundary. Zero is reserved and always invalid; handles are
//     process-wide unique and never reused.
//
//   - Slot
//
//     The shared, individually locked cell a table wraps a value in.
//     Table membership is independent of the value's lifetime: a
//     caller holding a *Slot keeps the value alive after removal.
//
//   - Budget
//
//     Maximum aggregate byte size a store (globally, or per kind) may
//     hold before evicting. After any operation the charged size is
//     within budget, except when a single entry's own size exceeds the
//     budget — such entries are admitted anyway rather than rejected.
//
//   - Eviction
//
//     Policy-driven discarding of store bookkeeping under budget
//     pressure. Only bookkeeping is discarded; resource teardown
//     happens wherever the handle is owned, outside the store's lock.
//
//   - Pinning
//
//     A pinned entry (SetEvictable false) is never selected as an
//     eviction victim, nor is any entry with more than one logical
//     reference.
//
//   - Reference count
//
//     Logical count of an entry's holders, starting at one on Put.
//     Keep/Drop adjust it; the entry is released when it reaches zero.
//
// Locking: each table and each store is serialized by one internal
// lock, so operations on a single instance are linearizable. There is
// no cross-instance ordering; "publish handle, then index by key" is
// a two-step sequence and callers must tolerate observing either half
// first. No I/O ever happens under either lock.
package micropdf
