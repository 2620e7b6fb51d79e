package normalize

// noiseWords are tokens that carry no merchant identity: payment jargon,
// Brazilian state abbreviations, corporate suffixes, month abbreviations and
// generic invoice words. Bank fee terms are deliberately absent so fee
// detection on normalized text keeps working.
var noiseWords = map[string]struct{}{}

func init() {
	for _, group := range [][]string{
		// Payment jargon
		{
			"COMPRA", "COMPRAS", "PAGAMENTO", "PAGTO", "PGTO", "PAG", "DEBITO", "DEB",
			"CREDITO", "CRED", "CARTAO", "CARD", "VISA", "MASTERCARD", "MASTER",
			"ELO", "HIPERCARD", "AMEX", "MAESTRO", "ELECTRON", "PIX", "TRANSF",
			"TRANSFERENCIA", "ENVIADA", "ENVIADO", "RECEBIDA", "RECEBIDO",
			"ELETRONICA", "AUTORIZADA", "APROVADA", "PARC", "PARCELADO", "VENDA",
			"NACIONAL", "INTERNACIONAL", "ONLINE", "POS", "ESTAB", "TERMINAL",
			"TERM", "NSU", "AUT", "AUTORIZ", "COD", "QRCODE", "CONTACTLESS",
			"DEBIT", "CREDIT", "PURCHASE", "PAYMENT",
		},
		// Brazilian states
		{
			"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS",
			"MG", "PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC",
			"SP", "SE", "TO", "BR", "BRA", "BRASIL",
		},
		// Corporate suffixes and web fragments
		{
			"LTDA", "EIRELI", "EPP", "CIA", "MEI", "SA", "ME", "INC", "LLC", "CO",
			"COM", "WWW", "NET",
		},
		// Months
		{
			"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT",
			"NOV", "DEZ", "FEB", "APR", "MAY", "AUG", "SEP", "OCT", "DEC",
		},
		// Generic invoice words
		{
			"FATURA", "BOLETO", "PARCELA", "REF", "REFERENTE", "NF", "NFE", "NOTA",
			"FISCAL", "VENC", "VENCIMENTO", "DATA", "VALOR", "SALDO", "HIST",
			"HISTORICO", "LANCAMENTO",
		},
	} {
		for _, w := range group {
			noiseWords[w] = struct{}{}
		}
	}
}

func isNoise(token string) bool {
	_, ok := noiseWords[token]
	return ok
}
