package repository

import (
	"fmt"
	"strings"

	"github.com/stwalsh4118/landbook/internal/models"
)

// Column groups shared by deals and properties, in scan/argument order.
var (
	addressCols     = []string{"street_address", "city", "county", "state", "zip_code"}
	closingCostCols = []string{
		"title_insurance", "recording_fees", "state_tax_stamps",
		"tax_proration", "attorney_fees", "other_closing_costs",
	}
	financingCols  = []string{"financing_type", "down_payment", "interest_rate", "loan_term_months", "monthly_payment"}
	personRoleCols = []string{"seller_id", "seller_agent_id", "buyer_agent_id", "title_company_id"}
)

func addressArgs(a *models.Address) []any {
	return []any{a.StreetAddress, a.City, a.County, a.State, a.ZipCode}
}

func addressDest(a *models.Address) []any {
	return []any{&a.StreetAddress, &a.City, &a.County, &a.State, &a.ZipCode}
}

func closingCostArgs(c *models.ClosingCosts) []any {
	return []any{c.TitleInsurance, c.RecordingFees, c.StateTaxStamps, c.TaxProration, c.AttorneyFees, c.OtherClosingCosts}
}

func closingCostDest(c *models.ClosingCosts) []any {
	return []any{&c.TitleInsurance, &c.RecordingFees, &c.StateTaxStamps, &c.TaxProration, &c.AttorneyFees, &c.OtherClosingCosts}
}

func financingArgs(f *models.Financing) []any {
	return []any{f.FinancingType, f.DownPayment, f.InterestRate, f.LoanTermMonths, f.MonthlyPayment}
}

func financingDest(f *models.Financing) []any {
	return []any{&f.FinancingType, &f.DownPayment, &f.InterestRate, &f.LoanTermMonths, &f.MonthlyPayment}
}

func personRoleArgs(r *models.PersonRoles) []any {
	return []any{r.SellerID, r.SellerAgentID, r.BuyerAgentID, r.TitleCompanyID}
}

func personRoleDest(r *models.PersonRoles) []any {
	return []any{&r.SellerID, &r.SellerAgentID, &r.BuyerAgentID, &r.TitleCompanyID}
}

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func concatArgs(groups ...[]any) []any {
	var out []any
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// placeholders renders "$start, ..., $start+n-1".
func placeholders(start, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(ps, ", ")
}

// assignments renders "col = $start, ..." for an UPDATE SET clause.
func assignments(cols []string, start int) string {
	as := make([]string, len(cols))
	for i, c := range cols {
		as[i] = fmt.Sprintf("%s = $%d", c, start+i)
	}
	return strings.Join(as, ", ")
}
