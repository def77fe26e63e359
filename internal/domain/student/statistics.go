package student

// ClassStatistics is the aggregate view of one class.
type ClassStatistics struct {
	// ClassName is the label as requested, not as stored.
	ClassName string

	TotalStudents  int
	ClassAverage   float64
	PassedStudents int
	FailedStudents int

	// PassRate is PassedStudents / TotalStudents * 100.
	PassRate float64

	HighestAverage float64
	LowestAverage  float64
}

// computeClassStatistics expects at least one member.
func computeClassStatistics(className string, members []*Record) ClassStatistics {
	stats := ClassStatistics{
		ClassName:     className,
		TotalStudents: len(members),
	}

	var sum float64
	for i, record := range members {
		avg := record.Average()
		sum += avg

		if i == 0 || avg > stats.HighestAverage {
			stats.HighestAverage = avg
		}
		if i == 0 || avg < stats.LowestAverage {
			stats.LowestAverage = avg
		}
		if avg >= PassThreshold {
			stats.PassedStudents++
		}
	}

	total := float64(stats.TotalStudents)
	stats.ClassAverage = sum / total
	stats.FailedStudents = stats.TotalStudents - stats.PassedStudents
	stats.PassRate = float64(stats.PassedStudents) / total * 100
	return stats
}
