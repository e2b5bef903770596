package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Heart Failure GWAS Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the heart-failure GWAS risk-loci API!"
	SERVICE_DESCRIPTION ServiceInfo = "Filters GWAS summary statistics into independent risk loci, annotates nearby genes and compares them against HFpEF/HFrEF differential expression."

	SERVICE_ARTIFACT    ServiceInfo = "hf-gwas"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.hfgwas:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
)
