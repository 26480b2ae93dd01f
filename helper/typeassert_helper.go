package helper

type TypeAssertHelper interface {
	String(interface{}) string
	StringSlice(interface{}) []string
	Float64Slice(interface{}) []float64
	Float64Slice2D(interface{}) [][]float64
}

type TypeAssertHelperImpl struct {
	logger LoggerHelper
}

func NewTypeAssertHelper(l LoggerHelper) TypeAssertHelper {
	return &TypeAssertHelperImpl{
		logger: l,
	}
}

func (h *TypeAssertHelperImpl) String(base interface{}) (result string) {
	result, ok := base.(string)
	if !ok {
		h.logger.LogAndContinue("Type assertion to string fails, returning empty string")
		return ""
	}
	return
}

func (h *TypeAssertHelperImpl) StringSlice(base interface{}) (result []string) {
	result, ok := base.([]string)
	if !ok {
		h.logger.LogAndContinue("Type assertion to []string fails, returning nil")
		return nil
	}
	return
}

func (h *TypeAssertHelperImpl) Float64Slice(base interface{}) (result []float64) {
	result, ok := base.([]float64)
	if !ok {
		h.logger.LogAndContinue("Type assertion to []float64 fails, returning nil")
		return nil
	}
	return
}

func (h *TypeAssertHelperImpl) Float64Slice2D(base interface{}) (result [][]float64) {
	result, ok := base.([][]float64)
	if !ok {
		h.logger.LogAndContinue("Type assertion to [][]float64 fails, returning nil")
		return nil
	}
	return
}
