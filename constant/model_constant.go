package constant

// Column keys of the sample matrix. Polygon ID and geometry always come first,
// the conflict label always last; variable columns sit in between in the order
// they are configured.
const (
	ColumnPolyID        = "poly_ID"
	ColumnPolyGeometry  = "poly_geometry"
	ColumnConflictTMin1 = "conflict_t_min_1"
	ColumnConflictNb    = "conflict_t_min_1_nb"
	ColumnConflict      = "conflict"
)

// Supported scaling methods.
const (
	ScalerMinMax   = "MinMaxScaler"
	ScalerStandard = "StandardScaler"
	ScalerRobust   = "RobustScaler"
	ScalerQuantile = "QuantileTransformer"
)

// Supported classification models.
const (
	ModelNuSVC      = "NuSVC"
	ModelKNeighbors = "KNeighborsClassifier"
	ModelRF         = "RFClassifier"
)

// Supported per-polygon raster reductions.
const (
	ReductionMean = "mean"
	ReductionMax  = "max"
	ReductionMin  = "min"
	ReductionSum  = "sum"
)

// Environment keys read by the model configuration.
const (
	EnvYearStart      = "MODEL_Y_START"
	EnvYearEnd        = "MODEL_Y_END"
	EnvIDColumn       = "MODEL_ID_COLUMN"
	EnvVariables      = "MODEL_VARIABLES"
	EnvScaler         = "MODEL_SCALER"
	EnvModel          = "MODEL_CLASSIFIER"
	EnvTrainFraction  = "MODEL_TRAIN_FRACTION"
	EnvRunCount       = "MODEL_N_RUNS"
	EnvVerbose        = "MODEL_VERBOSE"
	EnvReduction      = "MODEL_REDUCTION"
	EnvPrecalcMatrix  = "MODEL_PRECALC_MATRIX"
	EnvOutputDir      = "MODEL_OUTPUT_DIR"
	EnvProjectionYear = "MODEL_PROJECTION_YEAR"
	EnvEstimatorCount = "MODEL_RF_ESTIMATORS"
	EnvNeighborCount  = "MODEL_KNN_NEIGHBORS"
	EnvRandomSeed     = "MODEL_RANDOM_SEED"
	EnvInputDir       = "MODEL_INPUT_DIR"
	EnvPolygonFile    = "MODEL_POLYGON_FILE"
	EnvConflictTable  = "CONFLICT_EVENT_TABLE"
	EnvPostgresURL    = "POSTGRES_URL"
	EnvWebPort        = "WEB_PORT"
	EnvRunMode        = "RUN_MODE"
	EnvCORSOrigins    = "CORS_ALLOW_ORIGINS"
	EnvCORSMethods    = "CORS_ALLOW_METHODS"
	EnvCORSHeaders    = "CORS_ALLOW_HEADERS"
	EnvCORSExposeHdrs = "CORS_EXPOSE_HEADERS"
)
