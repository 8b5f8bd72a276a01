package domain

type PipelineName string

func (p PipelineName) String() string {
	return string(p)
}

const (
	PipelineBrands PipelineName = "brands" // Brand catalog with categories and logos
	PipelineTrends PipelineName = "trends" // "Just in" headlines
)

var PipelineNames = []PipelineName{
	PipelineBrands,
	PipelineTrends,
}

func (p PipelineName) GetTableName() string {
	switch p {
	case PipelineBrands:
		return "brandData"
	case PipelineTrends:
		return "trendData"
	default:
		return ""
	}
}

func ParsePipelineName(name string) (PipelineName, bool) {
	for _, p := range PipelineNames {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}
