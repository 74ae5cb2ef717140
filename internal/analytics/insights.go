package analytics

import (
	"fmt"
	"strings"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

// MaxInsights is how many insights a report returns.
const MaxInsights = 6

type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightDanger  InsightType = "danger"
	InsightInfo    InsightType = "info"
)

type Insight struct {
	Type    InsightType `json:"type"`
	Icon    string      `json:"icon"`
	Message string      `json:"message"`
}

// InsightReport holds the first MaxInsights insights in rule order and the
// number that fired in total.
type InsightReport struct {
	Insights []Insight
	Total    int
}

var (
	changeThreshold         = decimal.NewFromInt(10)
	goodSavingsRate         = decimal.NewFromInt(20)
	lowSavingsRate          = decimal.NewFromInt(10)
	strongROI               = decimal.NewFromInt(20)
	categorySpikeChange     = decimal.NewFromInt(50)
	categorySpikeFloor      = decimal.NewFromInt(1000)
	underControlMinDayCount = 10
)

// insightContext is the set of aggregates every rule reads.
type insightContext struct {
	window          DateWindow
	currentExpenses decimal.Decimal
	lastExpenses    decimal.Decimal
	expenseChange   decimal.Decimal
	currentIncome   decimal.Decimal
	lastIncome      decimal.Decimal
	incomeChange    decimal.Decimal
	savingsRate     decimal.Decimal
	paces           []BudgetPace
	investment      InvestmentScore
	anomalies       []*data.Transaction
	currentByCat    CategoryTotals
	lastByCat       CategoryTotals
}

func newInsightContext(s Snapshot, w DateWindow) *insightContext {
	c := &insightContext{
		window:          w,
		currentExpenses: Expenses(s.Transactions, w.CurrentMonthStart, w.CurrentMonthEnd),
		lastExpenses:    Expenses(s.Transactions, w.LastMonthStart, w.LastMonthEnd),
		currentIncome:   Income(s.Transactions, w.CurrentMonthStart, w.CurrentMonthEnd),
		lastIncome:      Income(s.Transactions, w.LastMonthStart, w.LastMonthEnd),
		paces:           BudgetPaces(s.Budgets, s.Transactions, w),
		investment:      ScoreInvestments(s.Investments, s.Rates),
		anomalies:       LargestFirst(FindAnomalies(s.Transactions, w.CurrentMonthStart, w.CurrentMonthEnd)),
		currentByCat:    ExpensesByCategory(s.Transactions, w.CurrentMonthStart, w.CurrentMonthEnd),
		lastByCat:       ExpensesByCategory(s.Transactions, w.LastMonthStart, w.LastMonthEnd),
	}
	c.expenseChange = PercentageChange(c.currentExpenses, c.lastExpenses)
	c.incomeChange = PercentageChange(c.currentIncome, c.lastIncome)
	c.savingsRate = SavingsRate(c.currentIncome, c.currentExpenses)
	return c
}

// insightCase pairs a predicate with the insight it renders.
type insightCase struct {
	when   func() bool
	render func() Insight
}

// firstMatch renders the first case whose predicate holds.
func firstMatch(cases ...insightCase) []Insight {
	for _, ic := range cases {
		if ic.when() {
			return []Insight{ic.render()}
		}
	}
	return nil
}

// insightRule is one step of the cascade.
type insightRule struct {
	name string
	emit func(c *insightContext) []Insight
}

// insightRules are evaluated in this order and their output is kept in
// this order.
var insightRules = []insightRule{
	{"expense-comparison", expenseComparisonInsights},
	{"income-comparison", incomeComparisonInsights},
	{"budget-pace", budgetPaceInsights},
	{"savings-rate", savingsRateInsights},
	{"investments", investmentInsights},
	{"largest-anomaly", anomalyInsights},
	{"category-trend", categoryTrendInsights},
}

// GenerateInsights runs every rule against the snapshot.
func GenerateInsights(s Snapshot, w DateWindow) InsightReport {
	c := newInsightContext(s, w)
	var all []Insight
	for _, rule := range insightRules {
		all = append(all, rule.emit(c)...)
	}
	report := InsightReport{Total: len(all), Insights: all}
	if len(all) > MaxInsights {
		report.Insights = all[:MaxInsights]
	}
	if report.Insights == nil {
		report.Insights = []Insight{}
	}
	return report
}

func expenseComparisonInsights(c *insightContext) []Insight {
	diff := c.currentExpenses.Sub(c.lastExpenses).Abs()
	change := c.expenseChange.Abs()
	return firstMatch(
		insightCase{
			when: func() bool { return c.expenseChange.GreaterThan(changeThreshold) },
			render: func() Insight {
				return Insight{InsightWarning, "⚠️", fmt.Sprintf("You've spent %s more than last month (%s%% increase)", money(diff), pct(change))}
			},
		},
		insightCase{
			when: func() bool { return c.expenseChange.LessThan(changeThreshold.Neg()) },
			render: func() Insight {
				return Insight{InsightSuccess, "✅", fmt.Sprintf("You've spent %s less than last month (%s%% decrease)", money(diff), pct(change))}
			},
		},
	)
}

func incomeComparisonInsights(c *insightContext) []Insight {
	change := c.incomeChange.Abs()
	return firstMatch(
		insightCase{
			when: func() bool { return c.incomeChange.GreaterThan(changeThreshold) },
			render: func() Insight {
				return Insight{InsightSuccess, "🎉", fmt.Sprintf("Income increased by %s%% compared to last month", pct(change))}
			},
		},
		insightCase{
			when: func() bool { return c.incomeChange.LessThan(changeThreshold.Neg()) },
			render: func() Insight {
				return Insight{InsightWarning, "⚠️", fmt.Sprintf("Income decreased by %s%% compared to last month", pct(change))}
			},
		},
	)
}

func budgetPaceInsights(c *insightContext) []Insight {
	var out []Insight
	for _, p := range c.paces {
		out = append(out, budgetPaceInsight(c, p)...)
	}
	return out
}

func budgetPaceInsight(c *insightContext, p BudgetPace) []Insight {
	return firstMatch(
		insightCase{
			when: func() bool { return p.Tier == PaceExceeded },
			render: func() Insight {
				return Insight{InsightDanger, "🔥", fmt.Sprintf("%s budget exceeded by %s", p.Category, money(p.Spent.Sub(p.Limit)))}
			},
		},
		insightCase{
			when: func() bool { return p.Tier == PaceBurning },
			render: func() Insight {
				msg := fmt.Sprintf("%s burning too fast! At current rate, you'll spend %s (%s%% of budget)",
					p.Category, money(p.ProjectedTotal), pct(p.ProjectedTotal.Div(p.Limit).Mul(hundred)))
				if day, ok := exhaustionDay(p); ok {
					msg += fmt.Sprintf(" and run out by day %d", day)
				}
				return Insight{InsightDanger, "🔥", msg}
			},
		},
		insightCase{
			when: func() bool { return p.Tier == PaceOverPace },
			render: func() Insight {
				return Insight{InsightDanger, "⚠️", fmt.Sprintf("%s spending too fast (%s%% over pace). Reduce to %s/day to stay within budget",
					p.Category, pct(p.Performance.Abs()), money(p.RecommendedDailySpending))}
			},
		},
		insightCase{
			when: func() bool { return p.Tier == PaceAhead },
			render: func() Insight {
				return Insight{InsightWarning, "⚠️", fmt.Sprintf("%s spending ahead of schedule - currently at %s%% with %d days left",
					p.Category, pct(p.Percentage), p.Period.DaysRemaining)}
			},
		},
		insightCase{
			when: func() bool {
				return p.Tier == PaceExcellent && c.window.DaysElapsedInMonth > underControlMinDayCount
			},
			render: func() Insight {
				return Insight{InsightSuccess, "✅", fmt.Sprintf("Excellent! %s spending well under control (%s%% used, %s%% under pace)",
					p.Category, pct(p.Percentage), pct(p.Performance))}
			},
		},
	)
}

// exhaustionDay is the day of the period on which the budget runs out at
// the current burn rate.
func exhaustionDay(p BudgetPace) (int, bool) {
	if p.DaysUntilExhausted == nil {
		return 0, false
	}
	day := decimal.NewFromInt(int64(p.Period.DaysElapsed)).Add(*p.DaysUntilExhausted).Ceil()
	return int(day.IntPart()), true
}

func savingsRateInsights(c *insightContext) []Insight {
	return firstMatch(
		insightCase{
			when: func() bool { return c.savingsRate.GreaterThanOrEqual(goodSavingsRate) },
			render: func() Insight {
				return Insight{InsightSuccess, "💰", fmt.Sprintf("Excellent! You're saving %s%% of your income this month", pct(c.savingsRate))}
			},
		},
		insightCase{
			when: func() bool { return c.savingsRate.LessThan(lowSavingsRate) && c.savingsRate.IsPositive() },
			render: func() Insight {
				return Insight{InsightWarning, "💡", fmt.Sprintf("Savings rate is low (%s%%) - aim for at least 20%%", pct(c.savingsRate))}
			},
		},
		insightCase{
			when: func() bool { return !c.savingsRate.IsPositive() },
			render: func() Insight {
				return Insight{InsightDanger, "🚨", "Alert: You're spending more than you earn this month"}
			},
		},
	)
}

func investmentInsights(c *insightContext) []Insight {
	inv := c.investment
	if !inv.HasInvestments {
		return []Insight{{InsightInfo, "💡", "Start investing to build wealth! Consider stocks, crypto, or mutual funds"}}
	}
	roi := firstMatch(
		insightCase{
			when: func() bool { return inv.ROI.GreaterThanOrEqual(strongROI) },
			render: func() Insight {
				return Insight{InsightSuccess, "📈", fmt.Sprintf("Outstanding! Your investments have %s%% returns", inv.ROI.String())}
			},
		},
		insightCase{
			when: func() bool { return inv.ROI.IsNegative() },
			render: func() Insight {
				return Insight{InsightWarning, "📉", fmt.Sprintf("Your portfolio is down %s%%. Consider reviewing your investment strategy", inv.ROI.Abs().String())}
			},
		},
	)
	diversification := firstMatch(
		insightCase{
			when: func() bool { return inv.Types == 1 },
			render: func() Insight {
				return Insight{InsightWarning, "⚠️", fmt.Sprintf("All investments in %s! Diversify to reduce risk", inv.TypesList[0])}
			},
		},
		insightCase{
			when: func() bool { return inv.Types == diversifiedTypes },
			render: func() Insight {
				return Insight{InsightSuccess, "🏆", fmt.Sprintf("Perfect diversification across %s!", strings.Join(inv.TypesList, ", "))}
			},
		},
	)
	return append(roi, diversification...)
}

func anomalyInsights(c *insightContext) []Insight {
	if len(c.anomalies) == 0 {
		return nil
	}
	largest := c.anomalies[0]
	return []Insight{{InsightInfo, "📊", fmt.Sprintf("Unusual expense detected: %s on %s (3x your average)",
		money(largest.Amount), data.NormalizeCategory(largest.Category))}}
}

func categoryTrendInsights(c *insightContext) []Insight {
	var out []Insight
	for _, category := range c.currentByCat.Categories() {
		current := c.currentByCat.Get(category)
		change := PercentageChange(current, c.lastByCat.Get(category))
		if change.GreaterThan(categorySpikeChange) && current.GreaterThan(categorySpikeFloor) {
			out = append(out, Insight{InsightWarning, "📈", fmt.Sprintf("%s expenses increased by %s%% - consider reviewing this category", category, pct(change))})
		}
	}
	return out
}
