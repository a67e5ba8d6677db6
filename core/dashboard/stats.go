// Package dashboard computes summary statistics over already role-filtered
// student and payment sets.
package dashboard

import (
	"sort"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

const recentPaymentCount = 10

type (
	ClassCount struct {
		Class    int    `json:"class"`
		Division string `json:"division"`
		Count    int    `json:"count"`
	}

	Stats struct {
		TotalStudents             int               `json:"total_students"`
		TotalCollections          int               `json:"total_collections"`
		DevelopmentFeeCollections int               `json:"development_fee_collections"`
		BusFeeCollections         int               `json:"bus_fee_collections"`
		SpecialCollections        int               `json:"special_payment_collections"`
		ClassWiseBreakup          []ClassCount      `json:"class_wise_breakup"`
		RecentPayments            []payment.Payment `json:"recent_payments"`
	}
)

// Compute aggregates the given sets. All sums are integer currency
// arithmetic. The class-wise breakup preserves the insertion order of the
// first occurrence of each (class, division) pair.
func Compute(students []student.Student, payments []payment.Payment) Stats {
	stats := Stats{TotalStudents: len(students)}

	for _, pmt := range payments {
		stats.TotalCollections += pmt.Amount
		switch pmt.Type {
		case payment.TypeDevelopment:
			stats.DevelopmentFeeCollections += pmt.Amount
		case payment.TypeBus:
			stats.BusFeeCollections += pmt.Amount
		case payment.TypeSpecial:
			stats.SpecialCollections += pmt.Amount
		}
	}

	for _, std := range students {
		var found bool
		for i := range stats.ClassWiseBreakup {
			if stats.ClassWiseBreakup[i].Class == std.Class && stats.ClassWiseBreakup[i].Division == std.Division {
				stats.ClassWiseBreakup[i].Count++
				found = true
				break
			}
		}
		if !found {
			stats.ClassWiseBreakup = append(stats.ClassWiseBreakup, ClassCount{
				Class:    std.Class,
				Division: std.Division,
				Count:    1,
			})
		}
	}

	recent := make([]payment.Payment, len(payments))
	copy(recent, payments)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > recentPaymentCount {
		recent = recent[:recentPaymentCount]
	}
	stats.RecentPayments = recent

	return stats
}
