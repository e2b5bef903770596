package models

type Config struct {
	Debug          bool   `envconfig:"HF_DEBUG"`
	SemVer         string `envconfig:"HF_SEMVER" default:"0.1.0"`
	ServiceContact string `envconfig:"HF_SERVICE_CONTACT" default:"mailto:hf-gwas@localhost"`

	Api struct {
		Port                    string `envconfig:"HF_API_INTERNAL_PORT" default:"5000"`
		UploadDirectory         string `envconfig:"HF_API_UPLOAD_DIRECTORY" default:"/tmp"`
		ExpressionPath          string `envconfig:"HF_API_EXPRESSION_PATH"`
		SignificantVariantsPath string `envconfig:"HF_API_SIGNIFICANT_VARIANTS_PATH"`
		VariantStore            string `envconfig:"HF_API_VARIANT_STORE" default:"file"`
		PersistSignificant      bool   `envconfig:"HF_API_PERSIST_SIGNIFICANT" default:"true"`
		RunRetentionHours       int    `envconfig:"HF_API_RUN_RETENTION_HOURS" default:"24"`
	}
	Gwas struct {
		PValueThreshold float64 `envconfig:"HF_GWAS_PVALUE_THRESHOLD" default:"5e-8"`
		WindowSize      int     `envconfig:"HF_GWAS_WINDOW_SIZE" default:"500000"`
	}
	Expression struct {
		PadjThreshold float64 `envconfig:"HF_EXPRESSION_PADJ_THRESHOLD" default:"0.05"`
	}
	Ensembl struct {
		Url            string `envconfig:"HF_ENSEMBL_URL" default:"https://rest.ensembl.org"`
		Species        string `envconfig:"HF_ENSEMBL_SPECIES" default:"human"`
		TimeoutSeconds int    `envconfig:"HF_ENSEMBL_TIMEOUT_SECONDS" default:"15"`
		MaxRetries     int    `envconfig:"HF_ENSEMBL_MAX_RETRIES" default:"3"`
		Concurrency    int    `envconfig:"HF_ENSEMBL_CONCURRENCY" default:"4"`
	}
	Elasticsearch struct {
		Url      string `envconfig:"HF_ES_URL"`
		Username string `envconfig:"HF_ES_USERNAME"`
		Password string `envconfig:"HF_ES_PASSWORD"`
		Index    string `envconfig:"HF_ES_INDEX" default:"significant-variants"`
	}
}
