package taxonomy

// DefaultThemes returns the built-in global trends.
func DefaultThemes() []Theme {
	return []Theme{
		{
			ID:    "SOSTENIBILIDAD",
			Label: "Sostenibilidad y Desarrollo Sostenible (ODS)",
			Color: "#2ECC71",
			Keywords: []string{
				"sostenibilidad", "sostenible", "desarrollo sostenible",
				"ODS", "objetivos desarrollo", "medio ambiente", "ambiental",
				"ecologia", "verde", "cambio climatico", "huella carbono",
				"economia circular", "recursos naturales",
			},
		},
		{
			ID:    "INTELIGENCIA_ARTIFICIAL",
			Label: "Inteligencia Artificial y Tecnologias Emergentes",
			Color: "#3498DB",
			Keywords: []string{
				"inteligencia artificial", "IA", "machine learning", "aprendizaje automatico",
				"deep learning", "redes neuronales", "algoritmos", "big data",
				"data science", "ciencia datos", "analytics", "mineria datos",
				"chatbot", "NLP", "vision artificial",
			},
		},
		{
			ID:    "TRANSFORMACION_DIGITAL",
			Label: "Transformacion Digital e Industria 4.0",
			Color: "#9B59B6",
			Keywords: []string{
				"transformacion digital", "digitalizacion", "digital",
				"industria 4.0", "automatizacion", "robotica",
				"internet cosas", "IoT", "cloud computing", "nube",
				"ciberseguridad", "blockchain", "tecnologia",
			},
		},
		{
			ID:    "INNOVACION",
			Label: "Innovacion y Emprendimiento",
			Color: "#E74C3C",
			Keywords: []string{
				"innovacion", "innovar", "emprendimiento", "emprender",
				"startup", "creatividad", "disrupcion", "disruptivo",
				"Design thinking", "lean", "agil", "prototipo",
			},
		},
		{
			ID:    "ETICA",
			Label: "Etica, Valores y Responsabilidad Social",
			Color: "#F39C12",
			Keywords: []string{
				"etica", "valores", "responsabilidad social", "RSE", "RSC",
				"deontologia", "codigo etico", "integridad",
				"transparencia", "buen gobierno", "compliance",
			},
		},
		{
			ID:    "GLOBALIZACION",
			Label: "Globalizacion y Perspectiva Glocal",
			Color: "#1ABC9C",
			Keywords: []string{
				"globalizacion", "global", "internacional", "glocal",
				"interculturalidad", "multicultural", "diversidad cultural",
				"comercio internacional", "exportacion", "importacion",
			},
		},
		{
			ID:    "LIDERAZGO",
			Label: "Liderazgo y Habilidades Blandas",
			Color: "#E67E22",
			Keywords: []string{
				"liderazgo", "trabajo equipo", "colaborativo", "comunicacion",
				"habilidades blandas", "soft skills", "gestion personas",
				"talento humano", "coaching", "mentoring", "negociacion",
			},
		},
		{
			ID:    "ANALISIS_DATOS",
			Label: "Analisis de Datos y Business Intelligence",
			Color: "#16A085",
			Keywords: []string{
				"analisis datos", "estadistica", "data analytics",
				"visualizacion datos", "business intelligence", "BI",
				"dashboard", "metricas", "KPI", "indicadores",
				"toma decisiones basada datos",
			},
		},
		{
			ID:    "GESTION_CAMBIO",
			Label: "Gestion del Cambio y Adaptabilidad",
			Color: "#8E44AD",
			Keywords: []string{
				"gestion cambio", "adaptabilidad", "resiliencia",
				"agilidad organizacional", "transformacion organizacional",
				"cultura organizacional", "cambio organizacional",
			},
		},
		{
			ID:    "CALIDAD",
			Label: "Calidad y Mejora Continua",
			Color: "#27AE60",
			Keywords: []string{
				"calidad", "mejora continua", "excelencia",
				"ISO", "normas", "estandares", "certificacion",
				"auditoria", "procesos", "eficiencia", "productividad",
			},
		},
	}
}

// DefaultDictionary returns a snapshot of DefaultThemes.
func DefaultDictionary() *Dictionary {
	return MustDictionary(DefaultThemes())
}

// DefaultLevels returns the built-in Bloom verb lists. "comparar" sits
// under Analyze only.
func DefaultLevels() []LevelDef {
	return []LevelDef{
		{Level: LevelRecall, Name: "Recordar", Verbs: []string{
			"definir", "listar", "recordar", "identificar", "nombrar",
			"reconocer", "reproducir", "seleccionar", "enumerar",
		}},
		{Level: LevelUnderstand, Name: "Comprender", Verbs: []string{
			"explicar", "describir", "interpretar", "resumir", "clasificar",
			"ejemplificar", "parafrasear", "ilustrar",
		}},
		{Level: LevelApply, Name: "Aplicar", Verbs: []string{
			"aplicar", "ejecutar", "implementar", "usar", "utilizar",
			"demostrar", "resolver", "calcular", "operar",
		}},
		{Level: LevelAnalyze, Name: "Analizar", Verbs: []string{
			"analizar", "diferenciar", "organizar", "atribuir", "comparar",
			"contrastar", "examinar", "investigar", "categorizar",
		}},
		{Level: LevelEvaluate, Name: "Evaluar", Verbs: []string{
			"evaluar", "criticar", "juzgar", "verificar", "validar",
			"argumentar", "defender", "apoyar", "justificar",
		}},
		{Level: LevelCreate, Name: "Crear", Verbs: []string{
			"crear", "diseñar", "construir", "planificar", "producir",
			"generar", "desarrollar", "formular", "proponer",
		}},
	}
}

// DefaultCognitiveTaxonomy returns the built-in taxonomy.
func DefaultCognitiveTaxonomy() *CognitiveTaxonomy {
	t, err := NewCognitiveTaxonomy(DefaultLevels())
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultDomainRules is the fallback table for outcomes whose verb is not
// in the taxonomy. Order is priority.
func DefaultDomainRules() DomainRules {
	return DomainRules{
		{Pattern: "analis", Level: LevelAnalyze},
		{Pattern: "evalua", Level: LevelEvaluate},
		{Pattern: "critica", Level: LevelEvaluate},
		{Pattern: "crea", Level: LevelCreate},
		{Pattern: "diseña", Level: LevelCreate},
		{Pattern: "aplic", Level: LevelApply},
		{Pattern: "comprend", Level: LevelUnderstand},
		{Pattern: "entiend", Level: LevelUnderstand},
	}
}

// DefaultActiveMethodologies lists strategy keywords that count as active
// learning.
func DefaultActiveMethodologies() []string {
	return []string{
		"abp", "aprendizaje basado en proyectos",
		"caso", "estudio de caso",
		"problema", "aprendizaje basado en problemas",
		"proyecto", "simulación", "debate", "taller",
	}
}
