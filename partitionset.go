package eav

import "github.com/RoaringBitmap/roaring/v2"

// AllPartitions is the partition set that selects every existing partition.
func AllPartitions() *roaring.Bitmap {
	return nil
}

// PartitionsOf returns a partition set for Select and for scoping queries.
// Queries treat a nil set as "every partition of the index".
func PartitionsOf(parts ...int) *roaring.Bitmap {
	bm := roaring.New()
	for _, p := range parts {
		bm.Add(uint32(p))
	}
	return bm
}

// partitionsIn returns the existing partitions of idx that belong to set, in
// ascending order.
func (idx *Index) partitionsIn(set *roaring.Bitmap) []*Partition {
	var result []*Partition
	if set == nil {
		for _, p := range idx.parts {
			if p != nil {
				result = append(result, p)
			}
		}
		return result
	}
	it := set.Iterator()
	for it.HasNext() {
		n := int(it.Next())
		if n < len(idx.parts) && idx.parts[n] != nil {
			result = append(result, idx.parts[n])
		}
	}
	return result
}
