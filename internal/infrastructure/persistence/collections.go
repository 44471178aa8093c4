package persistence

// Collection names in the remote tabular store
const (
	collectionProperties  = "properties"
	collectionDetails     = "property_details"
	collectionImages      = "property_images"
	collectionDocuments   = "property_documents"
	collectionAddresses   = "addresses"
	collectionOwners      = "owners"
	collectionClients     = "clients"
	collectionAdvisors    = "advisors"
	collectionContracts   = "contracts"
	collectionPayments    = "payments"
	collectionAppointment = "appointments"
	collectionPerformance = "advisor_performance"
)
