/*
Package eav implements an in-memory entity-attribute-value index built from
persistent maps.

Data is a set of datoms: entity E has value V for attribute A, written by
transaction TX. Every datom lives in the partition of its entity (see Layout),
and each partition keeps three indices:

1. AEVT, attribute → entity → value → tx, the primary index.

2. AVET, attribute → value → entity, for attributes that are indexed or unique.

3. VAET, referenced entity → attribute → referring entity, for references.

Secondary indices are kept in sync by Index.Add and Index.Remove; they never
hold anything the primary index does not. They mirror it exactly only while
unique attributes stay unique: once the current owner of a unique slot
retracts, the slot is cleared even if another entity still holds the value.

# Snapshots and editors

An *Index is an immutable snapshot. Edits return a new snapshot that shares
everything it did not touch with the old one, so old snapshots remain valid
for concurrent readers without locking.

Edits take a pmap.Editor. Structure created under an editor is modified in
place by later edits with the same editor, which makes a batch of edits cost
about as much as the same edits on a mutable map. Create one editor per write
session with pmap.NewEditor and stop using it once the result is published.
The zero Editor owns nothing and always copies.

# Reading

Snapshots answer direct reads (GetOne, GetMany, Contains, EntityExists) and
the closed set of queries run by QueryIndex. Iteration order is unspecified.

# Schema

Attributes carry their schema. Cardinality and IsRef choose the storage
representation; Indexed and Unique choose whether values go into AVET.
Unique attributes are not enforced: if two entities assert the same value,
the later write owns the AVET slot. Enforcing uniqueness is up to the
transaction layer.
*/
package eav
