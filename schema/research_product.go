package schema

const researchProductName = "research_product"

var (
	provenance = Struct(
		NewField("provenance", String()),
		NewField("trust", String()),
	)

	pid = Struct(
		NewField("scheme", String()),
		NewField("value", String()),
	)

	keyValue = Struct(
		NewField("key", String()),
		NewField("value", String()),
	)

	codeLabel = Struct(
		NewField("code", String()),
		NewField("label", String()),
	)

	affiliation = Struct(
		NewField("id", String()),
		NewField("name", String()),
		NewField("pid", List(Struct(
			NewField("type", String()),
			NewField("value", String()),
		))),
	)

	bestAccessRight = Struct(
		NewField("code", String()),
		NewField("label", String()),
		NewField("scheme", String()),
	)

	container = Struct(
		NewField("name", String()),
		NewField("issnPrinted", String()),
		NewField("issnOnline", String()),
		NewField("issnLinking", String()),
		NewField("iss", String()),
		NewField("sp", String()),
		NewField("ep", String()),
		NewField("vol", String()),
		NewField("edition", String()),
		NewField("conferenceplace", String()),
		NewField("conferencedate", String()),
	)

	researchContext = Struct(
		NewField("code", String()),
		NewField("label", String()),
		NewField("provenance", List(provenance)),
	)

	country = Struct(
		NewField("code", String()),
		NewField("label", String()),
		NewField("provenance", provenance),
	)

	eoscIF = Struct(
		NewField("code", String()),
		NewField("label", String()),
		NewField("semanticRelation", String()),
		NewField("url", String()),
	)

	geoLocation = Struct(
		NewField("point", String()),
		NewField("box", String()),
		NewField("place", String()),
	)

	indicator = Struct(
		NewField("bipIndicators", List(Struct(
			NewField("indicator", Enum("influence", "influence_alt", "popularity", "popularity_alt", "impulse")),
			NewField("score", String()),
			NewField("class", String()),
		))),
		NewField("usageCounts", Struct(
			NewField("views", String()),
			NewField("downloads", String()),
		)),
	)

	instance = Struct(
		NewField("accessright", Struct(
			NewField("code", String()),
			NewField("label", String()),
			NewField("openAccessRoute", Enum("gold", "green", "hybrid", "bronze")),
			NewField("scheme", String()),
		)),
		NewField("alternateIdentifier", List(pid)),
		NewField("articleprocessingcharge", Struct(
			NewField("amount", String()),
			NewField("currency", String()),
		)),
		NewField("collectedfrom", keyValue),
		NewField("eoscDsId", List(pid)),
		NewField("fulltext", String()),
		NewField("hostedby", keyValue),
		NewField("license", String()),
		NewField("measures", List(keyValue)),
		NewField("pid", List(pid)),
		NewField("publicationdate", String()),
		NewField("refereed", String()),
		NewField("type", String()),
		NewField("url", List(String())),
	)

	project = Struct(
		NewField("acronym", String()),
		NewField("code", String()),
		NewField("funder", Struct(
			NewField("fundingStream", String()),
			NewField("jurisdiction", String()),
			NewField("name", String()),
			NewField("shortName", String()),
		)),
		NewField("id", String()),
		NewField("provenance", String()),
		NewField("title", String()),
		NewField("validated", Struct(
			NewField("validatedByFunder", Boolean()),
			NewField("validationDate", String()),
		)),
	)

	relation = Struct(
		NewField("provenance", provenance),
		NewField("reltype", Struct(
			NewField("name", String()),
			NewField("type", String()),
		)),
		NewField("source", String()),
		NewField("target", String()),
		NewField("targetType", String()),
	)
)

// differences between dump versions
type revision struct {
	authorRank Type
	subject    Type
	source     Type
}

func researchProduct202401() *EntitySchema {
	return researchProduct("2024_01", revision{
		authorRank: Integer(),
		subject: Struct(
			NewField("subjects", Map(List(Struct(
				NewField("provenance", provenance),
				NewField("value", String()),
			)))),
		),
		source: List(String()),
	})
}

func researchProduct202308() *EntitySchema {
	return researchProduct("2023_08", revision{
		authorRank: String(),
		subject: List(Struct(
			NewField("scheme", String()),
			NewField("value", String()),
		)),
		source: List(String()),
	})
}

func researchProduct(version string, rev revision) *EntitySchema {
	author := Struct(
		NewField("fullname", String()),
		NewField("name", String()),
		NewField("surname", String()),
		NewField("rank", rev.authorRank),
		NewField("pid", Struct(
			NewField("id", pid),
			NewField("provenance", provenance),
		)),
	)

	return newEntitySchema(version, researchProductName,
		NewField("affiliation", List(affiliation)),
		NewField("author", List(author)),
		NewField("bestaccessright", bestAccessRight),
		NewField("codeRepositoryUrl", String()),
		NewField("collectedfrom", List(keyValue)),
		NewField("contactgroup", List(String())),
		NewField("contactperson", List(String())),
		NewField("container", container),
		NewField("context", List(researchContext)),
		NewField("contributor", List(String())),
		NewField("country", List(country)),
		NewField("coverage", List(String())),
		NewField("dateofcollection", String()),
		NewField("description", List(String())),
		NewField("documentationUrl", List(String())),
		NewField("embargoenddate", String()),
		NewField("eoscif", List(eoscIF)),
		NewField("format", List(String())),
		NewField("fulltext", List(String())),
		NewField("geolocation", List(geoLocation)),
		NewField("id", String()),
		NewField("indicator", indicator),
		NewField("instance", List(instance)),
		NewField("keywords", List(String())),
		NewField("language", codeLabel),
		NewField("lastupdatetimestamp", Integer()),
		NewField("maintitle", String()),
		NewField("originalid", List(String())),
		NewField("pid", List(pid)),
		NewField("programminglanguage", String()),
		NewField("projects", List(project)),
		NewField("publicationdate", String()),
		NewField("publisher", String()),
		NewField("relations", List(relation)),
		NewField("size", String()),
		NewField("source", rev.source),
		NewField("subject", rev.subject),
		NewField("subtitle", String()),
		NewField("tool", List(String())),
		NewField("type", String()),
		NewField("version", String()),
	)
}
