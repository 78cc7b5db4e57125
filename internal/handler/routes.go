package handler

// APIV1Prefix is the base path of the recruiter-facing API. Handlers and
// tests build URLs from it so the version lives in one place.
const APIV1Prefix = "/api/v1"

// serviceName labels health payloads so a probe pointed at the wrong
// deployment is obvious from the body.
const serviceName = "applicant-tracking-service"
