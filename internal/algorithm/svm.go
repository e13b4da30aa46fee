// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package algorithm

import (
	"strings"

	"github.com/pdiddy/pkprocessing/internal/param"
)

const cliSVM = "pksvm"

// Parameter names of the support vector machine classifier.
const (
	ParamTraining  = "TRAINING"
	ParamLayers    = "LAYERS"
	ParamIterate   = "ITERATE"
	ParamLabel     = "LABEL"
	ParamGamma     = "GAMMA"
	ParamCost      = "COST"
	ParamMask      = "MASK"
	ParamMskNodata = "MSKNODATA"
)

// SVM classifies a raster with a support vector machine trained on a
// vector sample file via pksvm.
type SVM struct {
	bin  string
	desc param.Descriptor
}

// NewSVM returns the SVM classification algorithm invoking bin.
func NewSVM(bin string) *SVM {
	return &SVM{
		bin: bin,
		desc: param.Descriptor{
			Name:        "pksvm",
			DisplayName: "Support vector machine",
			Group:       "[pktools] supervised classification",
			CLIName:     cliSVM,
			Parameters: []param.Parameter{
				param.Raster(ParamInput, "Input layer raster data set"),
				param.File(ParamTraining, "Training vector file", false),
				param.List(ParamLayers, "Layer name(s) in sample (leave empty to select all)", "", true),
				param.Boolean(ParamIterate, "Iterate over all layers", true),
				param.String(ParamLabel, "Attribute name for class label in training vector file", "label", false),
				param.Number(ParamGamma, "Gamma in kernel function", 0, 100, 1.0),
				param.Number(ParamCost, "The parameter C of C_SVC", 0, 100000, 1000.0),
				param.File(ParamMask, "Mask vector/raster dataset used for classification", true),
				param.List(ParamMskNodata, "Mask value(s) not to consider for classification (in case of raster mask, e.g., 0;255)", "0", false),
				param.String(ParamExtra, extraLabel, "-of GTiff", true),
			},
			Outputs: []param.Output{
				param.RasterOutput(OutputPath, "Output raster data set"),
			},
		},
	}
}

func (a *SVM) Descriptor() param.Descriptor { return a.desc }

// Commands builds the pksvm argument list. ITERATE has no pksvm flag and is
// not emitted.
func (a *SVM) Commands(v *param.Values) ([]string, error) {
	r := &reader{v: v}
	input := r.str(ParamInput)
	training := r.str(ParamTraining)
	layers := r.str(ParamLayers)
	label := r.str(ParamLabel)
	gamma := r.float(ParamGamma)
	cost := r.float(ParamCost)
	mask := r.str(ParamMask)
	mskNodata := r.str(ParamMskNodata)
	extra := r.str(ParamExtra)
	if r.err != nil {
		return nil, r.err
	}

	args := []string{a.bin}
	if input != "" {
		args = append(args, "-i", input)
	}
	args = append(args, "-t", training)
	args = appendEach(args, "-ln", layers)
	args = append(args, "-label", label)
	args = append(args, "-g", formatFloat(gamma), "-cc", formatFloat(cost))

	if hasMask(mask) {
		args = append(args, "-m", mask)
		args = appendEach(args, "-msknodata", mskNodata)
	}

	if out := v.Output(OutputPath); out != "" {
		args = append(args, "-o", out)
	}

	return appendExtra(args, extra)
}

// hasMask treats an empty value and the form placeholder "None" as no mask.
func hasMask(mask string) bool {
	return strings.TrimSpace(mask) != "" && !isNone(mask)
}
