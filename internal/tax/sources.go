package tax

// Source is an official reference backing the rules in this package.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Note  string `json:"note"`
}

// Sources are the legal references for the DGA fee, ITBIS and courier regulation.
var Sources = []Source{
	{
		Title: "DGA - Preguntas frecuentes (compras <= US$200 y tasa US$0.25/kg)",
		URL:   "https://www.aduanas.gob.do/preguntas-frecuentes/",
		Note:  "Para envíos vía courier por debajo de US$200, el cobro de Aduanas es la tasa de servicio (Decreto 627-06).",
	},
	{
		Title: "DGA - Decreto 627-06 (tasa de servicio aduanero, PDF)",
		URL:   "https://www.aduanas.gob.do/media/duqp0gql/627-06_que_reglamenta_art_14_ley_226-06.pdf",
		Note:  "Base legal de la tasa de servicio: US$0.25 por kilo o fracción, con tope por documento.",
	},
	{
		Title: "DGII - ITBIS (definición y aplicación a importaciones)",
		URL:   "https://dgii.gov.do/cicloContribuyente/obligacionesTributarias/principalesImpuestos/Paginas/Itbis.aspx",
		Note:  "El ITBIS aplica a la transferencia e importación de bienes industrializados y servicios.",
	},
	{
		Title: "DGA - Registro Courier / RUA (plataforma oficial)",
		URL:   "https://rua.aduanas.gob.do/",
		Note:  "Portal oficial para el Registro de Usuarios de servicios courier (RUA).",
	},
	{
		Title: "DGA - Norma General 01-2018 (courier; PDF)",
		URL:   "https://www.aduanas.gob.do/media/vf2nqfsy/norma-general-01-2018-sobre-envios-couriers-con-finalidad-comercial.pdf",
		Note:  "Regula el fraccionamiento de mercancías a través de empresas courier (origen del RUA).",
	},
}
