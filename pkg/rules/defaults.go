package rules

// DefaultInternalTerms is the built-in list of internal movement terms.
func DefaultInternalTerms() []InternalTerm {
	return []InternalTerm{
		{Term: "RESG", Kind: "Investimento"},
		{Term: "RESGATE", Kind: "Investimento"},
		{Term: "APLIC", Kind: "Investimento"},
		{Term: "APLICACAO", Kind: "Investimento"},
		{Term: "INVEST", Kind: "Investimento"},
		{Term: "POUP", Kind: "Poupança"},
		{Term: "CDB", Kind: "Investimento"},
		{Term: "TESOURO", Kind: "Investimento"},
		{Term: "TRANSF CONT", Kind: "Transferência"},
		{Term: "ENTRE CONTAS", Kind: "Transferência"},
		{Term: "AUTOMATICO", Kind: "Transferência"},
		{Term: "NOME", Kind: "Pessoal"},
	}
}

// DefaultKeywordRules is the built-in list of keyword rules.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Keyword: "UBER", Category: "Transporte"},
		{Keyword: "99POP", Category: "Transporte"},
		{Keyword: "POSTO", Category: "Transporte"},
		{Keyword: "IFOOD", Category: "Alimentação"},
		{Keyword: "RESTAURANTE", Category: "Alimentação"},
		{Keyword: "MERCADO", Category: "Mercado"},
		{Keyword: "ATACADAO", Category: "Mercado"},
		{Keyword: "NETFLIX", Category: "Assinaturas"},
		{Keyword: "VIVO", Category: "Contas Fixas"},
		{Keyword: "LUZ", Category: "Contas Fixas"},
		{Keyword: "FARMACIA", Category: "Saúde"},
		{Keyword: "PIX ENVIADO", Category: "Transferências/PIX"},
		{Keyword: "SALARIO", Category: "Renda"},
		{Keyword: "PIX RECEBIDO", Category: "Entradas Diversas"},
	}
}

// Default returns a RuleSet with the built-in rules.
func Default() *RuleSet {
	return New(DefaultKeywordRules(), DefaultInternalTerms())
}
