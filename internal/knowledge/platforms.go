package knowledge

// Category hints used by the built-in platform table.
const (
	categoryTransport      = "transporte"
	categoryFood           = "alimentacao"
	categorySubscriptions  = "assinaturas"
	categoryShopping       = "compras"
	categoryTravel         = "viagens"
	categoryHealth         = "saude"
	categoryHousing        = "moradia"
	subTransportApps       = "transporte-aplicativos"
	subTransportFuel       = "transporte-combustivel"
	subFoodDelivery        = "alimentacao-delivery"
	subFoodGroceries       = "alimentacao-supermercado"
	subStreaming           = "assinaturas-streaming"
	subSoftware            = "assinaturas-software"
	subShoppingOnline      = "compras-online"
	subTravelLodging       = "viagens-hospedagem"
	subTravelFlights       = "viagens-passagens"
	subHealthPharmacy      = "saude-farmacia"
	subHousingUtilities    = "moradia-contas-de-consumo"
	subHousingTelecom      = "moradia-telefone-e-internet"
	subShoppingMarketplace = "compras-marketplace"
)

// DefaultPlatforms returns the built-in platform table.
//
// Order matters. More specific patterns (UBER EATS, AMAZON PRIME, 99 FOOD)
// must stay ahead of the broader ones they overlap with.
func DefaultPlatforms() []Platform {
	return []Platform{
		// Ride hailing and delivery
		{
			Name:            "UBER EATS",
			Label:           "Uber Eats",
			Pattern:         `\bUBER\s*\*?\s*EATS\b|\bUBEREATS\b`,
			CategoryHint:    categoryFood,
			SubcategoryHint: subFoodDelivery,
		},
		{
			Name:            "UBER",
			Label:           "Uber",
			Pattern:         `\bUBER\b`,
			CategoryHint:    categoryTransport,
			SubcategoryHint: subTransportApps,
		},
		{
			Name:            "99 FOOD",
			Label:           "99Food",
			Pattern:         `\b99\s*FOOD\b`,
			CategoryHint:    categoryFood,
			SubcategoryHint: subFoodDelivery,
		},
		{
			Name:            "99",
			Label:           "99",
			Pattern:         `\b99\s*(APP|POP|TAXI|TECNOLOGIA)\b`,
			CategoryHint:    categoryTransport,
			SubcategoryHint: subTransportApps,
		},
		{
			Name:            "IFOOD",
			Label:           "iFood",
			Pattern:         `\bIFOOD\b|\bIFD\s*\*`,
			CategoryHint:    categoryFood,
			SubcategoryHint: subFoodDelivery,
			IsIntermediary:  true,
		},
		{
			Name:            "RAPPI",
			Label:           "Rappi",
			Pattern:         `\bRAPPI\b`,
			CategoryHint:    categoryFood,
			SubcategoryHint: subFoodDelivery,
			IsIntermediary:  true,
		},

		// Payment gateways and wallets
		{
			Name:           "MERCADOPAGO",
			Label:          "Mercado Pago",
			Pattern:        `MERCADO\s*PAGO|\bMERCPAGO\b|\bMP\s*\*`,
			IsIntermediary: true,
		},
		{
			Name:           "PAGSEGURO",
			Label:          "PagSeguro",
			Pattern:        `PAGSEGURO|\bPAGSEG\b|\bPAG\s*\*`,
			IsIntermediary: true,
		},
		{
			Name:           "PICPAY",
			Label:          "PicPay",
			Pattern:        `\bPICPAY\b|\bPIC\s*PAY\b`,
			IsIntermediary: true,
		},
		{
			Name:           "PAYPAL",
			Label:          "PayPal",
			Pattern:        `\bPAYPAL\b|\bPP\s*\*`,
			IsIntermediary: true,
		},
		{
			Name:           "STONE",
			Label:          "Stone",
			Pattern:        `\bSTONE\s*(PAGAMENTOS|INSTITUICAO)\b|\bSTN\s*\*`,
			IsIntermediary: true,
		},
		{
			Name:           "CIELO",
			Label:          "Cielo",
			Pattern:        `\bCIELO\b`,
			IsIntermediary: true,
		},
		{
			Name:           "GETNET",
			Label:          "Getnet",
			Pattern:        `\bGETNET\b`,
			IsIntermediary: true,
		},
		{
			Name:           "SUMUP",
			Label:          "SumUp",
			Pattern:        `\bSUMUP\b|\bSUM\s*UP\b`,
			IsIntermediary: true,
		},
		{
			Name:           "EBANX",
			Label:          "EBANX",
			Pattern:        `\bEBANX\b|\bEBN\s*\*`,
			IsIntermediary: true,
		},

		// Marketplaces
		{
			Name:            "MERCADOLIVRE",
			Label:           "Mercado Livre",
			Pattern:         `MERCADO\s*LIVRE|\bMELI\b`,
			CategoryHint:    categoryShopping,
			SubcategoryHint: subShoppingMarketplace,
			IsIntermediary:  true,
		},
		{
			Name:            "SHOPEE",
			Label:           "Shopee",
			Pattern:         `\bSHOPEE\b`,
			CategoryHint:    categoryShopping,
			SubcategoryHint: subShoppingMarketplace,
			IsIntermediary:  true,
		},
		{
			Name:            "ALIEXPRESS",
			Label:           "AliExpress",
			Pattern:         `\bALIEXPRESS\b|\bALIPAY\b`,
			CategoryHint:    categoryShopping,
			SubcategoryHint: subShoppingMarketplace,
			IsIntermediary:  true,
		},

		// Subscriptions
		{
			Name:            "AMAZON PRIME",
			Label:           "Amazon Prime",
			Pattern:         `\bAMAZON\s*PRIME\b|\bPRIME\s*VIDEO\b`,
			CategoryHint:    categorySubscriptions,
			SubcategoryHint: subStreaming,
		},
		{
			Name:            "AMAZON",
			Label:           "Amazon",
			Pattern:         `\bAMAZON\b|\bAMZN\b`,
			CategoryHint:    categoryShopping,
			SubcategoryHint: subShoppingOnline,
		},
		{
			Name:            "NETFLIX",
			Label:           "Netflix",
			Pattern:         `\bNETFLIX\b`,
			CategoryHint:    categorySubscriptions,
			SubcategoryHint: subStreaming,
		},
		{
			Name:            "SPOTIFY",
			Label:           "Spotify",
			Pattern:         `\bSPOTIFY\b`,
			CategoryHint:    categorySubscriptions,
			SubcategoryHint: subStreaming,
		},
		{
			Name:            "DISNEY",
			Label:           "Disney+",
			Pattern:         `\bDISNEY\s*(PLUS|\+)?`,
			CategoryHint:    categorySubscriptions,
			SubcategoryHint: subStreaming,
		},
		{
			Name:            "APPLE",
			Label:           "Apple",
			Pattern:         `\bAPPLE\.COM\b|\bAPPLE\s*SERVICES\b|\bITUNES\b`,
			CategoryHint:    categorySubscriptions,
			SubcategoryHint: subSoftware,
		},
		{
			Name:            "GOOGLE",
			Label:           "Google",
			Pattern:         `\bGOOGLE\b`,
			CategoryHint:    categorySubscriptions,
			SubcategoryHint: subSoftware,
		},

		// Travel
		{
			Name:            "AIRBNB",
			Label:           "Airbnb",
			Pattern:         `\bAIRBNB\b`,
			CategoryHint:    categoryTravel,
			SubcategoryHint: subTravelLodging,
		},
		{
			Name:            "BOOKING",
			Label:           "Booking.com",
			Pattern:         `\bBOOKING\.COM\b|\bBOOKING\s*COM\b`,
			CategoryHint:    categoryTravel,
			SubcategoryHint: subTravelLodging,
		},
		{
			Name:            "LATAM",
			Label:           "LATAM",
			Pattern:         `\bLATAM\b|\bTAM\s*LINHAS\b`,
			CategoryHint:    categoryTravel,
			SubcategoryHint: subTravelFlights,
		},
		{
			Name:            "GOL",
			Label:           "GOL",
			Pattern:         `\bGOL\s*(LINHAS|TRANSP)`,
			CategoryHint:    categoryTravel,
			SubcategoryHint: subTravelFlights,
		},
		{
			Name:            "AZUL",
			Label:           "Azul",
			Pattern:         `\bAZUL\s*(LINHAS|LA)\b`,
			CategoryHint:    categoryTravel,
			SubcategoryHint: subTravelFlights,
		},

		// Everyday merchants
		{
			Name:            "DROGASIL",
			Label:           "Drogasil",
			Pattern:         `\bDROGASIL\b|\bRAIA\b`,
			CategoryHint:    categoryHealth,
			SubcategoryHint: subHealthPharmacy,
		},
		{
			Name:            "SHELL",
			Label:           "Shell",
			Pattern:         `\bSHELL\b|\bRAIZEN\b`,
			CategoryHint:    categoryTransport,
			SubcategoryHint: subTransportFuel,
		},
		{
			Name:            "IPIRANGA",
			Label:           "Ipiranga",
			Pattern:         `\bIPIRANGA\b`,
			CategoryHint:    categoryTransport,
			SubcategoryHint: subTransportFuel,
		},
		{
			Name:            "CARREFOUR",
			Label:           "Carrefour",
			Pattern:         `\bCARREFOUR\b`,
			CategoryHint:    categoryFood,
			SubcategoryHint: subFoodGroceries,
		},
		{
			Name:            "PAO DE ACUCAR",
			Label:           "Pão de Açúcar",
			Pattern:         `\bPAO\s*DE\s*ACUCAR\b`,
			CategoryHint:    categoryFood,
			SubcategoryHint: subFoodGroceries,
		},
		{
			Name:            "ENEL",
			Label:           "Enel",
			Pattern:         `\bENEL\b`,
			CategoryHint:    categoryHousing,
			SubcategoryHint: subHousingUtilities,
		},
		{
			Name:            "SABESP",
			Label:           "Sabesp",
			Pattern:         `\bSABESP\b`,
			CategoryHint:    categoryHousing,
			SubcategoryHint: subHousingUtilities,
		},
		{
			Name:            "VIVO",
			Label:           "Vivo",
			Pattern:         `\bVIVO\b|\bTELEFONICA\b`,
			CategoryHint:    categoryHousing,
			SubcategoryHint: subHousingTelecom,
		},
		{
			Name:            "CLARO",
			Label:           "Claro",
			Pattern:         `\bCLARO\b|\bNET\s*SERVICOS\b`,
			CategoryHint:    categoryHousing,
			SubcategoryHint: subHousingTelecom,
		},
	}
}
