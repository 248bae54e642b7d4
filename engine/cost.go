/*
cost.go - Fully-loaded employee cost under each contract/payment model

PURPOSE:
  Turns a net pay figure into what the employer actually pays, per hour, per
  day and per month. The rules differ sharply by contract:

    off-books   net day rate x (1 + CA%) x (1 + dividend%)   (day is primary)
    daily       net day rate / 0.65 statutory gross-up        (day is primary)
    monthly     net salary x (1 + employer tax%), spread over hoursPerMonth
    hourly      net hourly x (1 + employer tax%)

PRECEDENCE:
  Contract type wins over payment model: an off-books or daily-contract worker
  is costed by the day regardless of what paymentModel says.

PURITY:
  CostFor is pure and callable standalone - the API uses it for live cost
  preview before an employee is persisted.
*/
package engine

import "github.com/shopspring/decimal"

var (
	hoursPerDay = decimal.NewFromFloat(HoursPerNormalDay)
	daysPerMonth = decimal.NewFromInt(BillableDaysPerMonth)
	oneHundred  = decimal.NewFromInt(100)
)

// taxMultiplier converts a percentage to a (1 + pct/100) factor.
func taxMultiplier(pct float64) decimal.Decimal {
	return decimal.NewFromInt(1).Add(decimal.NewFromFloat(pct).Div(oneHundred))
}

// CostFor computes the three derived cost figures for an employee under the
// given tax settings. Results are rounded to 2 decimals; a rule miss (or a
// degenerate input) yields zeros rather than NaN.
func CostFor(e Employee, s Settings) CostBreakdown {
	net := e.NetAmount
	hours := e.HoursPerMonth
	if hours <= 0 {
		hours = DefaultHoursPerMonth
	}
	hoursPerMonth := decimal.NewFromFloat(hours)

	var perHour, perDay, perMonth decimal.Decimal

	switch {
	case e.ContractType == ContractOffBooks:
		perDay = net.Mul(taxMultiplier(s.CATax)).Mul(taxMultiplier(s.DividendTax))
		perHour = perDay.Div(hoursPerDay)
		perMonth = perDay.Mul(daysPerMonth)

	case e.ContractType == ContractDaily || e.PaymentModel == PayDaily:
		perDay = net.Div(DailyGrossFactor)
		perHour = perDay.Div(hoursPerDay)
		perMonth = perDay.Mul(daysPerMonth)

	case e.PaymentModel == PayMonthly:
		perMonth = net.Mul(taxMultiplier(s.EmployerTax))
		perHour = perMonth.Div(hoursPerMonth)
		perDay = perHour.Mul(hoursPerDay)

	case e.PaymentModel == PayHourly:
		perHour = net.Mul(taxMultiplier(s.EmployerTax))
		perDay = perHour.Mul(hoursPerDay)
		perMonth = perHour.Mul(hoursPerMonth)

	default:
		// No matching rule: all figures stay zero.
	}

	return CostBreakdown{
		CostPerHour:      Round2(perHour),
		CostPerDay:       Round2(perDay),
		TotalMonthlyCost: Round2(perMonth),
	}
}
