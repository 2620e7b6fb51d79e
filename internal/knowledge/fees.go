package knowledge

// FinancialExpensesCategory is the category assigned to every bank fee.
const FinancialExpensesCategory = "despesas-financeiras"

// Fee subcategories.
const (
	SubcategoryIOF         = "despesas-financeiras-iof"
	SubcategoryAnnuity     = "despesas-financeiras-anuidade"
	SubcategoryInterest    = "despesas-financeiras-juros-e-multas"
	SubcategoryTransfer    = "despesas-financeiras-tarifas-de-transferencia"
	SubcategoryMaintenance = "despesas-financeiras-manutencao-de-conta"
)

// feeTermsPattern matches any banking fee term in normalized text.
// MORA is left to the term it accompanies ("JUROS DE MORA"), and CESTA only
// counts as a service bundle.
const feeTermsPattern = `\b(TARIFAS?|TAR|IOF|ANUIDADES?|JUROS|MULTAS?|ENCARGOS?|TED|DOC|MANUTENCAO|MANUT|TAXAS?|COBRANCAS?|CESTA\s+(DE\s+)?SERVICOS?)\b`

// DefaultFeeRules returns the fee sub-patterns in priority order:
// IOF, annuity, interest, TED/DOC, then generic maintenance.
func DefaultFeeRules() []FeeRule {
	return []FeeRule{
		{
			Name:          "iof",
			Label:         "IOF",
			Pattern:       `\bIOF\b`,
			SubcategoryID: SubcategoryIOF,
		},
		{
			Name:          "annuity",
			Label:         "Anuidade do cartão",
			Pattern:       `\bANUIDADES?\b`,
			SubcategoryID: SubcategoryAnnuity,
		},
		{
			Name:          "interest",
			Label:         "Juros e encargos",
			Pattern:       `\b(JUROS|MULTAS?|ENCARGOS?)\b`,
			SubcategoryID: SubcategoryInterest,
		},
		{
			Name:          "transfer",
			Label:         "Tarifa de transferência",
			Pattern:       `\b(TED|DOC)\b`,
			SubcategoryID: SubcategoryTransfer,
		},
		{
			Name:          "maintenance",
			Label:         "Tarifa bancária",
			Pattern:       `\b(TARIFAS?|TAR|MANUTENCAO|MANUT|TAXAS?|COBRANCAS?|CESTA\s+(DE\s+)?SERVICOS?)\b`,
			SubcategoryID: SubcategoryMaintenance,
		},
	}
}
