package eav

// PartitionStats describes the size of one partition.
type PartitionStats struct {
	Partition  int
	Attributes int
	Datoms     int
	ValueIndex int
	RefIndex   int
}

// IndexEntries is the number of secondary index entries.
func (ps PartitionStats) IndexEntries() int {
	return ps.ValueIndex + ps.RefIndex
}

func (p *Partition) Stats() PartitionStats {
	return PartitionStats{
		Partition:  p.num,
		Attributes: p.aevt.columns.Len(),
		Datoms:     p.aevt.Len(),
		ValueIndex: p.avet.Len(),
		RefIndex:   p.vaet.Len(),
	}
}

// Stats returns the sizes of all existing partitions.
func (idx *Index) Stats() []PartitionStats {
	var result []PartitionStats
	for _, p := range idx.parts {
		if p != nil {
			result = append(result, p.Stats())
		}
	}
	return result
}

// TotalStats sums Stats over all partitions; Partition is -1.
func (idx *Index) TotalStats() PartitionStats {
	total := PartitionStats{Partition: -1}
	for _, s := range idx.Stats() {
		total.Attributes += s.Attributes
		total.Datoms += s.Datoms
		total.ValueIndex += s.ValueIndex
		total.RefIndex += s.RefIndex
	}
	return total
}
