/*
Package schema provides lightweight structural validation for node
parameter maps.

A Schema maps parameter names to Type validators. Validate treats every
schema key as required, which is exactly what the node-rule category needs:
the catalog declares the required parameters of each node type as a Schema
and validation reports every missing or mistyped parameter at once.

	params := schema.Schema{
		"url":    schema.String(),
		"method": schema.String(),
	}
	err := schema.Validate(params, node.Parameters)

Errors aggregate: a failed validation returns an *AggregateError holding
one *ValidationError per offending parameter.
*/
package schema
