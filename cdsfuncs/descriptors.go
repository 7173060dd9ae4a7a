package cdsfuncs

import "github.com/cdsmodel/cellbridge/domain/entities"

func p(name, description string) entities.ParamSpec {
	return entities.Param(name, description)
}

func opt(name, description string) entities.ParamSpec {
	return entities.OptionalParam(name, description)
}

// Parameter help shared by the contract-style functions.
const (
	helpToday     = "Risk starts at the end of today"
	helpPayAcc    = "Should accrued interest be paid on default?"
	helpInterval  = "Interval between coupon payments"
	helpStub      = "If the startDate and endDate are not on cycle determines location of coupon dates"
	helpDCC       = "Day count convention for coupon payment"
	helpBDC       = "Bad day convention for adjusting coupon payment dates"
	helpHolidays  = "Calendar used when adjusting coupon dates"
	helpDiscount  = "Interest rate discount curve"
	helpSpread    = "Credit clean spread curve"
	helpRecovery  = "Assumed recovery rate in case of default"
	helpClean     = "Is the price expressed as a clean price? "
	helpCurveName = "Name of curve object "
	helpCurve     = "Discount/clean spread curve"
)

var (
	VersionDesc = entities.FunctionDescriptor{
		Name:        "Version",
		Description: "Get library version. ",
	}

	ErrorLogStatusDesc = entities.FunctionDescriptor{
		Name:        "ErrorLogStatus",
		Description: "Get error logging status. ",
	}

	ErrorLogContentsDesc = entities.FunctionDescriptor{
		Name:        "ErrorLogContents",
		Description: "Get last 20 messages within error log. ",
	}

	ErrorLogFilenameDesc = entities.FunctionDescriptor{
		Name:        "ErrorLogFilename",
		Description: "Get error log filename. ",
	}

	SetErrorLogFilenameDesc = entities.FunctionDescriptor{
		Name:        "SetErrorLogFilename",
		Description: "Set error log filename. ",
		Params: []entities.ParamSpec{
			p("Filename", "Name of alternative error log file"),
			p("Append", "Should the file be appended to if it already exists "),
		},
	}

	SetErrorLogStatusDesc = entities.FunctionDescriptor{
		Name:        "SetErrorLogStatus",
		Description: "Set error logging status. ",
		Params: []entities.ParamSpec{
			p("IsOn", "Desired state "),
		},
	}

	LoadHolidaysDesc = entities.FunctionDescriptor{
		Name:        "LoadHolidays",
		Description: "Load holiday calendar from file. ",
		Params: []entities.ParamSpec{
			p("Name", "Name of holiday calendar"),
			p("Filename", "Name of file containing holiday data "),
		},
	}

	IRZeroCurveBuildDesc = entities.FunctionDescriptor{
		Name:        "IRZeroCurveBuild",
		Description: "Bootstrap IR zero curve from cash and swap rates. ",
		Params: []entities.ParamSpec{
			p("Value Date", "Date for which the PV is calculated"),
			p("Types", ""),
			p("End Dates", ""),
			p("Rates", ""),
			opt("MMDCC", ""),
			p("Fixed IVL", "Interval between fixed coupon payments"),
			opt("Float IVL", "Interval between floating coupon payments"),
			p("Fixed DCC", "Day count convention for fixed coupon payments"),
			opt("Float DCC", "Day count convention for floating coupon payments"),
			opt("Swap BDC", helpBDC),
			p("Holidays", helpHolidays),
			p("name", helpCurveName),
		},
	}

	IRZeroCurveMakeDesc = entities.FunctionDescriptor{
		Name:        "IRZeroCurveMake",
		Description: "Recreate IR zero curve from dates and rates. ",
		Params: []entities.ParamSpec{
			p("Base Date", "Value date for zero curve. This is the date all the rates start at"),
			p("Dates", ""),
			p("Rates", ""),
			p("Basis", ""),
			opt("DCC", "Defaults to Act/365F"),
			p("name", helpCurveName),
		},
	}

	CleanSpreadCurveBuildDesc = entities.FunctionDescriptor{
		Name: "CleanSpreadCurveBuild",
		Params: []entities.ParamSpec{
			p("Today", helpToday),
			p("Start Date", "Date when CDS started"),
			p("Stepin Date", "Date when new protection begins"),
			p("CashSettle Date", "Date when payment made"),
			p("End Dates", "End date for each benchmark instrument"),
			p("Coupon Rates", "Coupon rate for each benchmark instrument"),
			opt("Include Flags", "Flags to include/exclude particular benchmarks (NULL = include all)"),
			p("Pay Acc On Default", helpPayAcc),
			p("Coupon Interval", helpInterval),
			opt("Stub Type", helpStub),
			opt("Payment DCC", helpDCC),
			opt("Bad Day Convention", helpBDC),
			p("Holidays", helpHolidays),
			p("Discount Curve", helpDiscount),
			p("Recovery Rate", helpRecovery),
			p("name", helpCurveName),
		},
	}

	DiscountFactorDesc = entities.FunctionDescriptor{
		Name:        "DiscountFactor",
		Description: "Interpolates a discount factor (or survival probablility) from an interest rate discount (or clean spread) curve. ",
		Params: []entities.ParamSpec{
			p("Curve", helpCurve),
			p("Date", "Interpolation date "),
		},
	}

	DatesAndRatesDesc = entities.FunctionDescriptor{
		Name:        "DatesAndRates",
		Description: "Get critical dates and rates (or survival probablility) from an interest rate discount (or clean spread) curve. ",
		Params: []entities.ParamSpec{
			p("Curve", helpCurve),
		},
	}

	ParSpreadFlatDesc = entities.FunctionDescriptor{
		Name:        "ParSpreadFlat",
		Description: "Return a single par spread which prices the CDS",
		Params: flatParams(
			"Fixed coupon rate (a.k.a. deal spread) for the fee leg",
			"Calendar used when adjusting coupon dates.",
			p("Upfront Charge", "present value of CDS"),
		),
	}

	UpfrontFlatDesc = entities.FunctionDescriptor{
		Name:        "UpfrontFlat",
		Description: "Return the upfront charge of the CDS assuming a flat credit curve",
		Params: flatParams(
			"Fixed coupon rate (a.k.a deal spread) for the fee leg",
			helpHolidays,
			p("Market Par Spread", "Par spread used bootstrapping credit clean curve"),
		),
	}

	CdsPriceDesc = entities.FunctionDescriptor{
		Name:        "CdsPrice",
		Description: "Computes the price for a vanilla CDS. ",
		Params: []entities.ParamSpec{
			p("Today", helpToday),
			p("CashSettle Date", "Date for which the PV is calculated"),
			p("StepIn Date", "Date when step-in begins"),
			p("Start Date", "Date when protection begins"),
			p("End Date", "Date when protection ends (end of day)"),
			p("Coupon Rate", "Fixed coupon rate (a.k.a. spread) for the fee leg"),
			p("Pay Acc On Default", helpPayAcc),
			p("Coupon Interval", helpInterval),
			opt("Stub Type", helpStub),
			opt("Payment DCC", helpDCC),
			opt("Bad Day Convention", helpBDC),
			p("Holidays", helpHolidays),
			p("Discount Curve", helpDiscount),
			p("Spread Curve", helpSpread),
			p("Recovery Rate", helpRecovery),
			p("Clean Price", helpClean),
		},
	}

	ParSpreadsDesc = entities.FunctionDescriptor{
		Name: "ParSpreads",
		Params: []entities.ParamSpec{
			p("Today", helpToday),
			p("StepIn Date", "Date when step in happens"),
			p("Start Date", "Date when CDS became/becomes effective"),
			p("End Dates", "End date for each benchmark instrument"),
			p("Pay Acc On Default", helpPayAcc),
			p("Coupon Interval", helpInterval),
			opt("Stub Type", helpStub),
			opt("Payment DCC", helpDCC),
			opt("Bad Day Convention", helpBDC),
			p("Holidays", helpHolidays),
			p("Discount Curve", helpDiscount),
			p("Spread Curve", helpSpread),
			p("Recovery Rate", helpRecovery),
		},
	}

	FeeLegFlowsDesc = entities.FunctionDescriptor{
		Name:        "FeeLegFlows",
		Description: "Return par spreads for a list of CDS maturity dates",
		Params: []entities.ParamSpec{
			p("Start Date", "Date when protection begins"),
			p("End Date", "End date for fee leg"),
			p("Coupon Rate", "Fixed coupon rate (a.k.a. spread) for the fee leg"),
			p("Notional", "Notional principal for fee leg"),
			p("Coupon Interval", helpInterval),
			opt("Stub Type", helpStub),
			opt("Payment DCC", helpDCC),
			opt("Bad Day Convention", helpBDC),
			p("Holidays", helpHolidays),
		},
	}
)

// flatParams lists the inputs shared by ParSpreadFlat and UpfrontFlat; they
// differ only in the quote in position 15 and two help strings.
func flatParams(couponHelp, holidaysHelp string, quote entities.ParamSpec) []entities.ParamSpec {
	return []entities.ParamSpec{
		p("Today", helpToday),
		p("CashSettle Date", "Date for which the PV is calculated"),
		p("Benchmark St Date", "Benchmark CDS start date for internal bootstrapping of credit curve"),
		p("StepIn Date", "Date when step-in begins"),
		p("Start Date", "Date when protection begins"),
		p("End Date", "Date when protection ends (end of day)"),
		p("Coupon Rate", couponHelp),
		p("Pay Acc On Default", helpPayAcc),
		p("Coupon Interval", helpInterval),
		opt("Stub Type", helpStub),
		opt("Payment DCC", helpDCC),
		opt("Bad Day Convention", helpBDC),
		p("Holidays", holidaysHelp),
		p("Discount Curve", helpDiscount),
		quote,
		p("Recovery Rate", helpRecovery),
		p("Clean Price", helpClean),
	}
}
