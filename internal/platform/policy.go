package platform

import (
	"encoding/json"
)

const policyVersion = "2012-10-17"

// PolicyDocument is an IAM policy document.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is one statement of a PolicyDocument.
type Statement struct {
	Effect    string                       `json:"Effect"`
	Principal map[string]string            `json:"Principal,omitempty"`
	Action    string                       `json:"Action"`
	Condition map[string]map[string]string `json:"Condition,omitempty"`
}

// String renders d as compact JSON.
func (d PolicyDocument) String() string {
	data, err := json.Marshal(d)
	if err != nil {
		// Only string maps and slices are marshaled.
		panic(err)
	}
	return string(data)
}

func serviceTrust(service string) PolicyDocument {
	return PolicyDocument{
		Version: policyVersion,
		Statement: []Statement{{
			Effect:    "Allow",
			Principal: map[string]string{"Service": service},
			Action:    "sts:AssumeRole",
		}},
	}
}

// webIdentityTrust lets exactly one service account assume the role
// through the cluster's OIDC provider.
func webIdentityTrust(providerARN, providerHost, namespace, serviceAccount string) PolicyDocument {
	return PolicyDocument{
		Version: policyVersion,
		Statement: []Statement{{
			Effect:    "Allow",
			Principal: map[string]string{"Federated": providerARN},
			Action:    "sts:AssumeRoleWithWebIdentity",
			Condition: map[string]map[string]string{
				"StringEquals": {
					providerHost + ":sub": "system:serviceaccount:" + namespace + ":" + serviceAccount,
					providerHost + ":aud": "sts.amazonaws.com",
				},
			},
		}},
	}
}
